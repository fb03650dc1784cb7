// Пакет site — пример приложения поверх ginutils: профили настроек,
// маршруты, команды и загрузчик пользователей.
package site

import (
	"time"

	"github.com/Gunvolt24/ginutils/config"
)

// URLModule — имя модуля маршрутов сайта.
const URLModule = "site"

// Settings — профили, выбираемые FLASKUTILS_SETTINGS_MODULE.
// Адрес БД и SECRET_KEY для production задаются окружением
// (FLASKUTILS_POSTGRESQL_DATABASE_URI, FLASKUTILS_SECRET_KEY).
func Settings() config.Modules {
	return config.Modules{
		"development": {
			Debug:         true,
			LogLevel:      "DEBUG",
			URLs:          URLModule,
			TemplatesGlob: "templates/*.html",
			SecretKey:     "development-secret",
		},
		"production": {
			LogLevel:          "INFO",
			URLs:              URLModule,
			TemplatesGlob:     "templates/*.html",
			OAuth2TokenExpiry: 15 * time.Minute,
		},
		"test": {
			LogLevel:      "WARNING",
			URLs:          URLModule,
			TemplatesGlob: "templates/*.html",
			SecretKey:     "test-secret",
			Extra:         map[string]any{"SITE_TITLE": "ginutils test"},
		},
	}
}
