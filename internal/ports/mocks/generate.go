//go:generate mockgen -source=../session.go      -destination=./mock_session.go      -package=mocks
//go:generate mockgen -source=../client_store.go -destination=./mock_client_store.go -package=mocks
//go:generate mockgen -source=../logger.go       -destination=./mock_logger.go       -package=mocks

package mocks
