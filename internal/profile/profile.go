package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/metrics"
	"github.com/letsssgooo/wolfpedia/internal/persist"
	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// Manager хранит имя пользователя и выбранный аватар.
type Manager struct {
	avatars []models.Avatar
	profile models.Profile
	repo    *persist.Repository
	log     *slog.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// New загружает профиль. Отсутствующие, поврежденные или неизвестные
// значения заменяются значениями по умолчанию.
func New(
	ctx context.Context,
	avatars []models.Avatar,
	repo *persist.Repository,
	log *slog.Logger,
	m *metrics.Metrics,
) *Manager {
	mgr := &Manager{
		avatars: append([]models.Avatar(nil), avatars...),
		profile: models.Profile{UserName: DefaultUserName},
		repo:    repo,
		log:     log,
		metrics: m,
	}

	if len(avatars) > 0 {
		mgr.profile.SelectedAvatar = avatars[0].ID
	}

	if rec, err := repo.LoadUserName(ctx); err == nil {
		if name, err := ParseUserName(rec.Name); err == nil {
			mgr.profile.UserName = name
		} else {
			log.Warn("stored user name is invalid, using default", "err", err)
			m.CorruptReplaced(persist.KeyUserName)
		}
	} else {
		mgr.loadFailed(persist.KeyUserName, err)
	}

	if rec, err := repo.LoadAvatar(ctx); err == nil {
		if _, ok := mgr.avatarByID(rec.ID); ok {
			mgr.profile.SelectedAvatar = rec.ID
		} else {
			log.Warn("stored avatar is unknown, using default", "avatar", rec.ID)
			m.CorruptReplaced(persist.KeySelectedAvatar)
		}
	} else {
		mgr.loadFailed(persist.KeySelectedAvatar, err)
	}

	return mgr
}

func (m *Manager) loadFailed(key string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, persist.ErrCorruptState):
		m.log.Warn("profile value is corrupt, using default", "key", key, "err", err)
		m.metrics.CorruptReplaced(key)
	default:
		m.log.Warn("failed to load profile value, using default", "key", key, "err", err)
	}
}

// Profile возвращает копию профиля.
func (m *Manager) Profile() models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.profile
}

// Avatar возвращает выбранный аватар.
func (m *Manager) Avatar() (models.Avatar, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.avatarByID(m.profile.SelectedAvatar)
}

// Rename меняет имя пользователя. Невалидное имя отклоняется с ErrValidation.
func (m *Manager) Rename(ctx context.Context, name string) error {
	name, err := ParseUserName(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.profile.UserName = name
	m.log.Debug("user renamed", "name", name)

	if err = m.repo.SaveUserName(ctx, name); err != nil {
		m.log.Warn("failed to persist user name", "err", err)
		m.metrics.PersistFailed(persist.KeyUserName)
	}

	return nil
}

// SelectAvatar выбирает аватар из каталога.
func (m *Manager) SelectAvatar(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.avatarByID(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAvatar, id)
	}

	m.profile.SelectedAvatar = id
	m.log.Debug("avatar selected", "avatar", id)

	if err := m.repo.SaveAvatar(ctx, id); err != nil {
		m.log.Warn("failed to persist avatar", "err", err)
		m.metrics.PersistFailed(persist.KeySelectedAvatar)
	}

	return nil
}

// UnlockedAvatars возвращает аватары, доступные при счете score.
func (m *Manager) UnlockedAvatars(score int) []models.Avatar {
	result := make([]models.Avatar, 0, len(m.avatars))
	for _, a := range m.avatars {
		if a.UnlockScore <= score {
			result = append(result, a)
		}
	}

	return result
}

// LockedAvatars возвращает аватары, недоступные при счете score.
func (m *Manager) LockedAvatars(score int) []models.Avatar {
	result := make([]models.Avatar, 0, len(m.avatars))
	for _, a := range m.avatars {
		if a.UnlockScore > score {
			result = append(result, a)
		}
	}

	return result
}

// NextAvatar возвращает ближайший недоступный аватар.
func (m *Manager) NextAvatar(score int) (models.Avatar, bool) {
	var (
		next  models.Avatar
		found bool
	)
	for _, a := range m.avatars {
		if a.UnlockScore <= score {
			continue
		}

		if !found || a.UnlockScore < next.UnlockScore {
			next, found = a, true
		}
	}

	return next, found
}

// AvatarProgress возвращает долю доступных аватаров от 0 до 1.
func (m *Manager) AvatarProgress(score int) float64 {
	if len(m.avatars) == 0 {
		return 0
	}

	return float64(len(m.UnlockedAvatars(score))) / float64(len(m.avatars))
}

func (m *Manager) avatarByID(id string) (models.Avatar, bool) {
	for _, a := range m.avatars {
		if a.ID == id {
			return a, true
		}
	}

	return models.Avatar{}, false
}
