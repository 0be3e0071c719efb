// Package storagetest содержит тестовые реализации storage.Storage.
package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// ErrWriteFailed возвращается FailingStorage при записи.
var ErrWriteFailed = errors.New("write failed")

// RecordingStorage хранит значения в памяти и считает записи по ключам.
type RecordingStorage struct {
	*storage.MemoryStorage

	// FailWrites заставляет Set возвращать ErrWriteFailed.
	FailWrites bool

	writes map[string]int
	mu     sync.Mutex
}

// NewRecordingStorage создает пустое хранилище.
func NewRecordingStorage() *RecordingStorage {
	return &RecordingStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		writes:        make(map[string]int),
	}
}

// NewFailingStorage создает хранилище, в которое нельзя записать.
func NewFailingStorage() *RecordingStorage {
	st := NewRecordingStorage()
	st.FailWrites = true

	return st
}

// Set считает попытку записи и сохраняет значение, если запись разрешена.
func (s *RecordingStorage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.writes[key]++
	fail := s.FailWrites
	s.mu.Unlock()

	if fail {
		return ErrWriteFailed
	}

	return s.MemoryStorage.Set(ctx, key, value)
}

// Writes возвращает число попыток записи ключа.
func (s *RecordingStorage) Writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writes[key]
}
