package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const fileFormatVersion = 1

// FileStorage реализует Storage поверх одного JSON файла на диске.
// Весь документ переписывается при каждой записи.
type FileStorage struct {
	path   string
	values map[string][]byte
	mu     sync.Mutex
}

type filePayload struct {
	FormatVersion int               `json:"format_version"`
	Values        map[string][]byte `json:"values"`
}

// NewFileStorage открывает файловое хранилище по пути path.
// Отсутствующий файл означает пустое хранилище. Поврежденный файл тоже
// считается пустым: об этом пишется предупреждение, и файл будет
// перезаписан при первой записи.
func NewFileStorage(path string, log *slog.Logger) (*FileStorage, error) {
	s := &FileStorage{
		path:   path,
		values: make(map[string][]byte),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("failed to read storage file %s: %w", path, err)
	}

	var payload filePayload
	if err = json.Unmarshal(data, &payload); err != nil {
		log.Warn("storage file is corrupt, starting empty", "path", path, "err", err)
		return s, nil
	}

	for key, value := range payload.Values {
		s.values[key] = value
	}

	return s, nil
}

// Get возвращает копию значения по ключу.
func (s *FileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

// Set сохраняет значение и переписывает файл.
func (s *FileStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.values[key]
	s.values[key] = append([]byte(nil), value...)

	if err := s.flush(); err != nil {
		if existed {
			s.values[key] = previous
		} else {
			delete(s.values, key)
		}

		return err
	}

	return nil
}

// flush атомарно записывает документ через временный файл.
func (s *FileStorage) flush() error {
	data, err := json.MarshalIndent(filePayload{
		FormatVersion: fileFormatVersion,
		Values:        s.values,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write storage file %s: %w", tmp, err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file %s: %w", s.path, err)
	}

	return nil
}
