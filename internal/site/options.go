package site

import (
	"github.com/Gunvolt24/ginutils/internal/app"
)

// Options — параметры Bootstrap для сайта.
func Options(baseDir string, console bool) app.Options {
	return app.Options{
		Name:       "site",
		BaseDir:    baseDir,
		Settings:   Settings(),
		URLs:       URLs(),
		Console:    console,
		UserLoader: LoadUser,
	}
}
