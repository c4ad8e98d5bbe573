// Package random реализует генерацию случайных строк на основе crypto/rand.
// Используется для паролей-заглушек при создании пользователя из платежного
// потока и для учетных данных портала домашних заданий.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// PlaceholderPasswordLength длина пароля-заглушки для пользователей,
// созданных из платежного потока.
const PlaceholderPasswordLength = 12

// Alphanumeric возвращает случайную строку длиной n из букв и цифр.
func Alphanumeric(n int) (string, error) {
	const op = "random.Alphanumeric"
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = alphanumeric[idx.Int64()]
	}
	return string(buf), nil
}
