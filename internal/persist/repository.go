package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// Repository служит единственной границей (де)сериализации между моделями и хранилищем.
type Repository struct {
	st storage.Storage
}

// NewRepository создает репозиторий поверх хранилища st.
func NewRepository(st storage.Storage) *Repository {
	return &Repository{st: st}
}

// LoadFavorites читает избранное. Старый формат (голый JSON массив) тоже принимается.
// Возвращает storage.ErrNotFound, если записи нет, и ErrCorruptState, если она повреждена.
func (r *Repository) LoadFavorites(ctx context.Context) (FavoritesRecord, error) {
	var rec FavoritesRecord

	data, err := r.get(ctx, KeyFavorites)
	if err != nil {
		return rec, err
	}

	if isJSONArray(data) {
		err = json.Unmarshal(data, &rec.IDs)
	} else {
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		return FavoritesRecord{}, corrupt(KeyFavorites, err)
	}

	for _, id := range rec.IDs {
		if id == "" {
			return FavoritesRecord{}, corrupt(KeyFavorites, errors.New("empty species id"))
		}
	}

	return rec, nil
}

// SaveFavorites записывает избранное целиком.
func (r *Repository) SaveFavorites(ctx context.Context, ids []string) error {
	return r.set(ctx, KeyFavorites, FavoritesRecord{Version: schemaVersion, IDs: ids})
}

// LoadAchievements читает состояния достижений.
// Старый формат (массив записей с полем isUnlocked) тоже принимается.
func (r *Repository) LoadAchievements(ctx context.Context) (AchievementsRecord, error) {
	var rec AchievementsRecord

	data, err := r.get(ctx, KeyAchievements)
	if err != nil {
		return rec, err
	}

	if isJSONArray(data) {
		var legacy []struct {
			ID         string `json:"id"`
			IsUnlocked bool   `json:"isUnlocked"`
		}
		if err = json.Unmarshal(data, &legacy); err != nil {
			return AchievementsRecord{}, corrupt(KeyAchievements, err)
		}

		for _, item := range legacy {
			rec.Items = append(rec.Items, AchievementState{ID: item.ID, Unlocked: item.IsUnlocked})
		}

		return rec, nil
	}

	if err = json.Unmarshal(data, &rec); err != nil {
		return AchievementsRecord{}, corrupt(KeyAchievements, err)
	}

	return rec, nil
}

// SaveAchievements записывает состояния всех достижений одной записью.
func (r *Repository) SaveAchievements(ctx context.Context, items []AchievementState) error {
	return r.set(ctx, KeyAchievements, AchievementsRecord{Version: schemaVersion, Items: items})
}

// LoadAvatar читает выбранный аватар.
func (r *Repository) LoadAvatar(ctx context.Context) (AvatarRecord, error) {
	var rec AvatarRecord
	if err := r.load(ctx, KeySelectedAvatar, &rec); err != nil {
		return AvatarRecord{}, err
	}

	return rec, nil
}

// SaveAvatar записывает выбранный аватар.
func (r *Repository) SaveAvatar(ctx context.Context, id string) error {
	return r.set(ctx, KeySelectedAvatar, AvatarRecord{ID: id})
}

// LoadUserName читает имя пользователя.
func (r *Repository) LoadUserName(ctx context.Context) (UserNameRecord, error) {
	var rec UserNameRecord
	if err := r.load(ctx, KeyUserName, &rec); err != nil {
		return UserNameRecord{}, err
	}

	return rec, nil
}

// SaveUserName записывает имя пользователя.
func (r *Repository) SaveUserName(ctx context.Context, name string) error {
	return r.set(ctx, KeyUserName, UserNameRecord{Name: name})
}

func (r *Repository) load(ctx context.Context, key string, rec any) error {
	data, err := r.get(ctx, key)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(data, rec); err != nil {
		return corrupt(key, err)
	}

	return nil
}

func (r *Repository) get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, storage.Timeout)
	defer cancel()

	return r.st.Get(ctx, key)
}

func (r *Repository) set(ctx context.Context, key string, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, storage.Timeout)
	defer cancel()

	if err = r.st.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}

func corrupt(key string, err error) error {
	return fmt.Errorf("%w: key %s: %v", ErrCorruptState, key, err)
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
