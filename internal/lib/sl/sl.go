// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import (
	"fmt"
	"log/slog"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Panic возвращает slog.Attr для значения, полученного из recover().
func Panic(rec any) slog.Attr {
	return slog.String("panic", fmt.Sprint(rec))
}
