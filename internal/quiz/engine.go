package quiz

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/metrics"
)

var _ QuizEngine = (*Engine)(nil)

// Engine реализует QuizEngine для одного пользователя.
type Engine struct {
	questions []models.Question
	listener  Listener
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	sessionID  string
	state      State
	idx        int
	score      int
	correct    map[string]struct{}
	answers    []Answer
	last       *Result
	startedAt  time.Time
	finishedAt time.Time
	mu         sync.Mutex
}

// Option настраивает Engine.
type Option func(*Engine)

// WithLogger задает логгер движка.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics задает метрики движка.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine создаёт движок и начинает первую сессию.
// listener может быть nil.
func NewEngine(questions []models.Question, listener Listener, opts ...Option) (*Engine, error) {
	if err := isCorrectQuestions(questions); err != nil {
		return nil, fmt.Errorf("can not create quiz engine, %w", err)
	}

	cloned := make([]models.Question, len(questions))
	for i, q := range questions {
		cloned[i] = q.Clone()
	}

	e := &Engine{
		questions: cloned,
		listener:  listener,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.resetLocked()

	return e, nil
}

// SubmitAnswer регистрирует ответ на вопрос questionIdx.
func (e *Engine) SubmitAnswer(ctx context.Context, questionIdx, answerIdx int) (Result, error) {
	e.mu.Lock()

	switch e.state {
	case StateEmpty:
		e.mu.Unlock()
		return e.reject(ErrNoQuestions)
	case StateCompleted:
		e.mu.Unlock()
		return e.reject(ErrQuizCompleted)
	case StateShowingResult:
		if questionIdx == e.idx {
			last := *e.last
			last.Unlocked = append([]models.Achievement(nil), e.last.Unlocked...)
			e.mu.Unlock()
			e.metrics.Answer("rejected")
			return last, ErrAlreadyAnswered
		}

		current := e.idx
		e.mu.Unlock()
		return e.reject(fmt.Errorf("%w: question %d is answered, advance first", ErrQuestionMismatch, current))
	}

	if questionIdx != e.idx {
		current := e.idx
		e.mu.Unlock()
		return e.reject(fmt.Errorf("%w: got %d, current %d", ErrQuestionMismatch, questionIdx, current))
	}

	question := e.questions[e.idx]
	if answerIdx < 0 || answerIdx >= len(question.Options) {
		e.mu.Unlock()
		return e.reject(fmt.Errorf("%w: %d of %d options", ErrInvalidChoice, answerIdx, len(question.Options)))
	}

	result := Result{
		QuestionIdx: e.idx,
		QuestionID:  question.ID,
		AnswerIdx:   answerIdx,
		CorrectIdx:  question.Correct,
		IsCorrect:   answerIdx == question.Correct,
		Explanation: question.Explanation,
	}

	if result.IsCorrect {
		result.Points = PointsPerCorrect
		e.score += PointsPerCorrect
		e.correct[question.ID] = struct{}{}
	}
	result.Score = e.score

	e.answers = append(e.answers, Answer{
		QuestionIdx: e.idx,
		QuestionID:  question.ID,
		AnswerIdx:   answerIdx,
		IsCorrect:   result.IsCorrect,
		Points:      result.Points,
		AnsweredAt:  e.now(),
	})
	e.state = StateShowingResult
	e.last = &result

	sessionID := e.sessionID
	score := e.score
	e.mu.Unlock()

	e.log.Debug("answer submitted",
		"session", sessionID, "question", question.ID, "correct", result.IsCorrect, "score", score)
	if result.IsCorrect {
		e.metrics.Answer("correct")
	} else {
		e.metrics.Answer("incorrect")
	}
	e.metrics.SetScore(score)

	if !result.IsCorrect || e.listener == nil {
		return result, nil
	}

	result.Unlocked = e.listener.Evaluate(ctx, score)

	e.mu.Lock()
	if e.sessionID == sessionID && e.last != nil && e.last.QuestionIdx == result.QuestionIdx {
		e.last.Unlocked = result.Unlocked
	}
	e.mu.Unlock()

	return result, nil
}

// SubmitAnswerByID регистрирует ответ на вопрос по его идентификатору.
func (e *Engine) SubmitAnswerByID(ctx context.Context, questionID string, answerIdx int) (Result, error) {
	for i, q := range e.questions {
		if q.ID == questionID {
			return e.SubmitAnswer(ctx, i, answerIdx)
		}
	}

	return e.reject(fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID))
}

// SubmitAnswerByLetter регистрирует ответ на текущий вопрос по букве.
func (e *Engine) SubmitAnswerByLetter(ctx context.Context, letter string) (Result, error) {
	answerIdx, ok := LetterToIndex(strings.ToUpper(strings.TrimSpace(letter)))
	if !ok {
		return e.reject(fmt.Errorf("%w: can not convert letter %q to index", ErrInvalidChoice, letter))
	}

	e.mu.Lock()
	current := e.idx
	e.mu.Unlock()

	return e.SubmitAnswer(ctx, current, answerIdx)
}

func (e *Engine) reject(err error) (Result, error) {
	e.metrics.Answer("rejected")
	return Result{}, err
}

// Advance переходит к следующему вопросу или завершает квиз.
func (e *Engine) Advance() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateEmpty:
		return e.state, ErrNoQuestions
	case StateCompleted:
		return e.state, ErrQuizCompleted
	case StateAwaitingAnswer:
		return e.state, ErrNotAnswered
	}

	if e.idx+1 < len(e.questions) {
		e.idx++
		e.state = StateAwaitingAnswer
		e.last = nil

		return e.state, nil
	}

	e.state = StateCompleted
	e.finishedAt = e.now()
	e.log.Info("quiz completed",
		"session", e.sessionID, "score", e.score, "correct", len(e.correct), "total", len(e.questions))

	return e.state, nil
}

// Reset начинает новую сессию. Избранное и достижения не затрагиваются.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	e.metrics.SetScore(0)
	e.log.Debug("quiz reset", "session", e.sessionID)
}

func (e *Engine) resetLocked() {
	e.sessionID = uuid.NewString()
	e.idx = 0
	e.score = 0
	e.correct = make(map[string]struct{})
	e.answers = nil
	e.last = nil
	e.startedAt = e.now()
	e.finishedAt = time.Time{}

	if len(e.questions) == 0 {
		e.state = StateEmpty
	} else {
		e.state = StateAwaitingAnswer
	}
}

// Snapshot возвращает копию текущего состояния сессии.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		SessionID:   e.sessionID,
		State:       e.state,
		QuestionIdx: e.idx,
		Total:       len(e.questions),
		Score:       e.score,
	}

	if e.state == StateAwaitingAnswer || e.state == StateShowingResult {
		q := e.questions[e.idx].Clone()
		snap.Question = &q
	}

	if e.last != nil {
		last := *e.last
		last.Unlocked = append([]models.Achievement(nil), e.last.Unlocked...)
		snap.LastResult = &last
	}

	return snap
}

// Score возвращает счет текущей сессии.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.score
}

// Results возвращает итоги сессии. Доступно только после завершения.
func (e *Engine) Results() (*SessionResults, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateCompleted {
		return nil, fmt.Errorf("%w: session %s", ErrQuizNotCompleted, e.sessionID)
	}

	return &SessionResults{
		SessionID:    e.sessionID,
		Score:        e.score,
		CorrectCount: len(e.correct),
		CorrectIDs:   e.correctIDsLocked(),
		Total:        len(e.questions),
		Answers:      append([]Answer(nil), e.answers...),
		TotalTime:    e.finishedAt.Sub(e.startedAt),
	}, nil
}

// correctIDsLocked возвращает верно отвеченные вопросы в порядке ответов.
func (e *Engine) correctIDsLocked() []string {
	ids := make([]string, 0, len(e.correct))
	for _, a := range e.answers {
		if a.IsCorrect {
			ids = append(ids, a.QuestionID)
		}
	}

	return ids
}

// ExportCSV экспортирует ответы завершенной сессии в формате CSV.
func (e *Engine) ExportCSV() ([]byte, error) {
	results, err := e.Results()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(results.Answers)+1)
	rows = append(rows, []string{
		"Number",
		"QuestionID",
		"Question",
		"Answer",
		"CorrectAnswer",
		"IsCorrect",
		"Points",
		"AnsweredAt",
	})

	for _, a := range results.Answers {
		q := e.questions[a.QuestionIdx]
		rows = append(rows, []string{
			strconv.Itoa(a.QuestionIdx + 1),
			a.QuestionID,
			q.Text,
			q.Options[a.AnswerIdx],
			q.Options[q.Correct],
			strconv.FormatBool(a.IsCorrect),
			strconv.Itoa(a.Points),
			a.AnsweredAt.UTC().Format(time.RFC3339),
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err = w.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
