package achievements

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/metrics"
	"github.com/letsssgooo/wolfpedia/internal/persist"
	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// Evaluator хранит достижения и открывает их по набранному счету.
// Открытое достижение никогда не закрывается обратно.
type Evaluator struct {
	items   []models.Achievement
	repo    *persist.Repository
	log     *slog.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// New создает Evaluator из статических определений и сохраненных состояний.
// Определение выигрывает во всех полях, кроме IsUnlocked; сохраненные
// идентификаторы без определения отбрасываются.
func New(
	ctx context.Context,
	defs []models.Achievement,
	repo *persist.Repository,
	log *slog.Logger,
	m *metrics.Metrics,
) *Evaluator {
	e := &Evaluator{
		items:   make([]models.Achievement, len(defs)),
		repo:    repo,
		log:     log,
		metrics: m,
	}

	for i, def := range defs {
		def.IsUnlocked = false
		e.items[i] = def
	}

	rec, err := repo.LoadAchievements(ctx)
	switch {
	case err == nil:
		e.reconcile(rec.Items)
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, persist.ErrCorruptState):
		log.Warn("achievements are corrupt, starting locked", "err", err)
		m.CorruptReplaced(persist.KeyAchievements)
	default:
		log.Warn("failed to load achievements, starting locked", "err", err)
	}

	return e
}

func (e *Evaluator) reconcile(stored []persist.AchievementState) {
	unlocked := make(map[string]bool, len(stored))
	for _, st := range stored {
		if st.Unlocked {
			unlocked[st.ID] = true
		}
	}

	for i := range e.items {
		e.items[i].IsUnlocked = unlocked[e.items[i].ID]
	}
}

// Evaluate открывает все закрытые достижения с RequiredScore <= score
// и возвращает только что открытые. Непустая пачка сохраняется одной записью.
func (e *Evaluator) Evaluate(ctx context.Context, score int) []models.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	var unlocked []models.Achievement
	for i := range e.items {
		if e.items[i].IsUnlocked || e.items[i].RequiredScore > score {
			continue
		}

		e.items[i].IsUnlocked = true
		unlocked = append(unlocked, e.items[i])
		e.log.Info("achievement unlocked", "id", e.items[i].ID, "score", score)
	}

	if len(unlocked) == 0 {
		return nil
	}

	e.metrics.Unlocked(len(unlocked))

	if err := e.repo.SaveAchievements(ctx, e.statesLocked()); err != nil {
		e.log.Warn("failed to persist achievements", "err", err)
		e.metrics.PersistFailed(persist.KeyAchievements)
	}

	return unlocked
}

// All возвращает все достижения в порядке объявления.
func (e *Evaluator) All() []models.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]models.Achievement(nil), e.items...)
}

// Unlocked возвращает открытые достижения.
func (e *Evaluator) Unlocked() []models.Achievement {
	return e.filter(true)
}

// Locked возвращает закрытые достижения.
func (e *Evaluator) Locked() []models.Achievement {
	return e.filter(false)
}

// Progress возвращает долю открытых достижений от 0 до 1.
func (e *Evaluator) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) == 0 {
		return 0
	}

	n := 0
	for _, a := range e.items {
		if a.IsUnlocked {
			n++
		}
	}

	return float64(n) / float64(len(e.items))
}

// Next возвращает закрытое достижение с наименьшим RequiredScore.
// false, если все открыты.
func (e *Evaluator) Next() (models.Achievement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		next  models.Achievement
		found bool
	)
	for _, a := range e.items {
		if a.IsUnlocked {
			continue
		}

		if !found || a.RequiredScore < next.RequiredScore {
			next, found = a, true
		}
	}

	return next, found
}

func (e *Evaluator) filter(unlocked bool) []models.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]models.Achievement, 0, len(e.items))
	for _, a := range e.items {
		if a.IsUnlocked == unlocked {
			result = append(result, a)
		}
	}

	return result
}

func (e *Evaluator) statesLocked() []persist.AchievementState {
	states := make([]persist.AchievementState, len(e.items))
	for i, a := range e.items {
		states[i] = persist.AchievementState{ID: a.ID, Unlocked: a.IsUnlocked}
	}

	return states
}
