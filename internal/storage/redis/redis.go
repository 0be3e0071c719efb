package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// keyPrefix отделяет ключи приложения от остальных данных в Redis.
const keyPrefix = "wolfpedia:"

// Storage реализует storage.Storage поверх Redis.
type Storage struct {
	client *goredis.Client
}

// NewStorage подключается к Redis по адресу addr и проверяет соединение.
func NewStorage(ctx context.Context, addr, password string, db int) (*Storage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", addr, err)
	}

	return NewStorageFromClient(client), nil
}

// NewStorageFromClient оборачивает уже созданный клиент.
func NewStorageFromClient(client *goredis.Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

// Close закрывает клиент.
func (s *Storage) Close() error {
	return s.client.Close()
}
