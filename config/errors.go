package config

import "errors"

// ErrUnknownModule — модуль настроек с таким именем не зарегистрирован.
var ErrUnknownModule = errors.New("settings module not found")

// ConfigurationError — ошибка конфигурации (нет настроек, неизвестная команда).
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }
