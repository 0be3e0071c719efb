// Package app собирает менеджеры состояния в одно хранилище,
// которое создается один раз при старте и передается слою представления.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/letsssgooo/wolfpedia/internal/achievements"
	"github.com/letsssgooo/wolfpedia/internal/catalog"
	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/favorites"
	"github.com/letsssgooo/wolfpedia/internal/metrics"
	"github.com/letsssgooo/wolfpedia/internal/persist"
	"github.com/letsssgooo/wolfpedia/internal/profile"
	"github.com/letsssgooo/wolfpedia/internal/quiz"
)

// Store владеет состоянием приложения.
type Store struct {
	catalog      *catalog.Catalog
	favorites    *favorites.Manager
	achievements *achievements.Evaluator
	quiz         *quiz.Engine
	profile      *profile.Manager
	log          *slog.Logger
}

// Dashboard содержит сводку для главного экрана и профиля.
type Dashboard struct {
	UserName            string
	Avatar              models.Avatar
	Score               int
	QuizState           quiz.State
	UnlockedCount       int
	AchievementsTotal   int
	AchievementProgress float64
	NextAchievement     *models.Achievement
	FavoritesCount      int
	SpeciesCount        int
}

// New создает хранилище и загружает сохраненное состояние из repo.
func New(
	ctx context.Context,
	cat *catalog.Catalog,
	repo *persist.Repository,
	log *slog.Logger,
	m *metrics.Metrics,
) (*Store, error) {
	evaluator := achievements.New(ctx, cat.AchievementDefs(), repo, log.With("component", "achievements"), m)

	engine, err := quiz.NewEngine(cat.Questions(), evaluator,
		quiz.WithLogger(log.With("component", "quiz")),
		quiz.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return &Store{
		catalog:      cat,
		favorites:    favorites.New(ctx, repo, log.With("component", "favorites"), m),
		achievements: evaluator,
		quiz:         engine,
		profile:      profile.New(ctx, cat.Avatars(), repo, log.With("component", "profile"), m),
		log:          log,
	}, nil
}

// Catalog возвращает справочные данные.
func (s *Store) Catalog() *catalog.Catalog { return s.catalog }

// Favorites возвращает менеджер избранного.
func (s *Store) Favorites() *favorites.Manager { return s.favorites }

// Achievements возвращает достижения.
func (s *Store) Achievements() *achievements.Evaluator { return s.achievements }

// Quiz возвращает движок квиза.
func (s *Store) Quiz() *quiz.Engine { return s.quiz }

// Profile возвращает профиль.
func (s *Store) Profile() *profile.Manager { return s.profile }

// ToggleFavorite переключает вид в избранном и возвращает новое членство.
func (s *Store) ToggleFavorite(ctx context.Context, speciesID string) bool {
	return s.favorites.Toggle(ctx, speciesID)
}

// SubmitAnswer отвечает на вопрос questionID вариантом choice.
func (s *Store) SubmitAnswer(ctx context.Context, questionID string, choice int) (quiz.Result, error) {
	return s.quiz.SubmitAnswerByID(ctx, questionID, choice)
}

// SubmitAnswerLetter отвечает на текущий вопрос буквой варианта.
func (s *Store) SubmitAnswerLetter(ctx context.Context, letter string) (quiz.Result, error) {
	return s.quiz.SubmitAnswerByLetter(ctx, letter)
}

// AdvanceQuiz переходит к следующему вопросу.
func (s *Store) AdvanceQuiz() (quiz.State, error) {
	return s.quiz.Advance()
}

// ResetQuiz начинает квиз заново. Открытые достижения остаются открытыми.
func (s *Store) ResetQuiz() {
	s.quiz.Reset()
}

// Rename меняет имя пользователя.
func (s *Store) Rename(ctx context.Context, name string) error {
	return s.profile.Rename(ctx, name)
}

// SelectAvatar выбирает аватар.
func (s *Store) SelectAvatar(ctx context.Context, avatarID string) error {
	return s.profile.SelectAvatar(ctx, avatarID)
}

// Dashboard собирает сводку текущего состояния.
func (s *Store) Dashboard() Dashboard {
	p := s.profile.Profile()
	avatar, _ := s.profile.Avatar()
	snap := s.quiz.Snapshot()

	d := Dashboard{
		UserName:            p.UserName,
		Avatar:              avatar,
		Score:               snap.Score,
		QuizState:           snap.State,
		UnlockedCount:       len(s.achievements.Unlocked()),
		AchievementsTotal:   len(s.achievements.All()),
		AchievementProgress: s.achievements.Progress(),
		FavoritesCount:      s.favorites.Count(),
		SpeciesCount:        len(s.catalog.Species()),
	}

	if next, ok := s.achievements.Next(); ok {
		d.NextAchievement = &next
	}

	return d
}

// ShareText формирует сообщение, которым пользователь делится успехами.
func (s *Store) ShareText() string {
	return fmt.Sprintf(
		"🐺 Wolfpedia - Wolf Encyclopedia\n\n"+
			"I've earned %d points and unlocked %d achievements!\n\n"+
			"Join us and explore the amazing world of wolves! 🌟",
		s.quiz.Score(),
		len(s.achievements.Unlocked()),
	)
}
