// Пакет ctxmeta — метаданные запроса в context.Context (request_id, subject, trace_id).
// HTTP-слой и логгер зависят от этого пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемый тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeySubject   ctxKey = "subject"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithSubject — кто выполняет запрос: id пользователя или OAuth2-клиента.
func WithSubject(ctx context.Context, subject string) context.Context {
	return withString(ctx, KeySubject, subject)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeySubject)
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
