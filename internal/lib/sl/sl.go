// Package sl дополняет log/slog атрибутами, общими для всех сервисов.
package sl

import "log/slog"

// Err упаковывает ошибку в атрибут с ключом "error", чтобы записи
// об ошибках во всех логах выглядели одинаково:
//
//	log.Error("failed to apply event", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
