package storage

import (
	"context"
	"errors"
	"time"
)

// Storage определяет интерфейс локального хранилища ключ-значение.
// Транзакционность не требуется: каждое значение записывается целиком.
type Storage interface {
	// Get возвращает значение по ключу. Возвращает ErrNotFound, если ключа нет.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение по ключу, перезаписывая старое.
	Set(ctx context.Context, key string, value []byte) error
}

// ErrNotFound возвращается, если ключ отсутствует в хранилище.
var ErrNotFound = errors.New("key not found")

// Timeout ограничивает одну операцию с хранилищем.
const Timeout = 2 * time.Second
