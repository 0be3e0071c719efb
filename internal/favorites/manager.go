package favorites

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/letsssgooo/wolfpedia/internal/catalog"
	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/metrics"
	"github.com/letsssgooo/wolfpedia/internal/persist"
	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// Manager хранит множество избранных видов и сохраняет его после каждого изменения.
type Manager struct {
	ids     map[string]struct{}
	repo    *persist.Repository
	log     *slog.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// New загружает избранное из репозитория.
// Отсутствующая или поврежденная запись дает пустое множество.
func New(ctx context.Context, repo *persist.Repository, log *slog.Logger, m *metrics.Metrics) *Manager {
	mgr := &Manager{
		ids:     make(map[string]struct{}),
		repo:    repo,
		log:     log,
		metrics: m,
	}

	rec, err := repo.LoadFavorites(ctx)
	switch {
	case err == nil:
		for _, id := range rec.IDs {
			mgr.ids[id] = struct{}{}
		}
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, persist.ErrCorruptState):
		log.Warn("favorites are corrupt, starting empty", "err", err)
		m.CorruptReplaced(persist.KeyFavorites)
	default:
		log.Warn("failed to load favorites, starting empty", "err", err)
	}

	return mgr
}

// Toggle добавляет вид в избранное или убирает его оттуда.
// Возвращает новое членство. Ошибка записи только логируется.
func (m *Manager) Toggle(ctx context.Context, speciesID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, present := m.ids[speciesID]
	if present {
		delete(m.ids, speciesID)
	} else {
		m.ids[speciesID] = struct{}{}
	}

	m.metrics.FavoriteToggled()
	m.log.Debug("favorite toggled", "species", speciesID, "favorite", !present)

	// запись под блокировкой, чтобы более старое множество не перезаписало новое
	if err := m.repo.SaveFavorites(ctx, m.sortedLocked()); err != nil {
		m.log.Warn("failed to persist favorites", "err", err)
		m.metrics.PersistFailed(persist.KeyFavorites)
	}

	return !present
}

// IsFavorite проверяет, находится ли вид в избранном.
func (m *Manager) IsFavorite(speciesID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.ids[speciesID]
	return ok
}

// IDs возвращает отсортированные идентификаторы избранного.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sortedLocked()
}

// Count возвращает размер множества, включая идентификаторы, которых нет в каталоге.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.ids)
}

// Species проецирует избранное на каталог: порядок каталога,
// идентификаторы без вида в каталоге пропускаются.
func (m *Manager) Species(cat *catalog.Catalog) []models.Species {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := cat.Species()
	result := make([]models.Species, 0, len(m.ids))
	for _, s := range all {
		if _, ok := m.ids[s.ID]; ok {
			result = append(result, s)
		}
	}

	return result
}

func (m *Manager) sortedLocked() []string {
	ids := make([]string, 0, len(m.ids))
	for id := range m.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
