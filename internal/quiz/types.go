package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
)

// PointsPerCorrect начисляется за правильный ответ. Сложность вопроса не учитывается.
const PointsPerCorrect = 10

var (
	ErrNoQuestions      = errors.New("quiz has no questions")
	ErrQuizCompleted    = errors.New("quiz is completed")
	ErrQuizNotCompleted = errors.New("quiz is not completed")
	ErrAlreadyAnswered  = errors.New("question is already answered")
	ErrNotAnswered      = errors.New("current question is not answered")
	ErrQuestionMismatch = errors.New("question is not current")
	ErrInvalidChoice    = errors.New("invalid answer choice")
	ErrUnknownQuestion  = errors.New("unknown question")
)

// State описывает состояние сессии квиза.
type State string

const (
	StateEmpty          State = "empty"
	StateAwaitingAnswer State = "awaiting_answer"
	StateShowingResult  State = "showing_result"
	StateCompleted      State = "completed"
)

// Listener получает новый счет после каждого правильного ответа.
// Вызывается синхронно, вне блокировки движка.
type Listener interface {
	Evaluate(ctx context.Context, score int) []models.Achievement
}

// Result содержит итог одного ответа.
type Result struct {
	QuestionIdx int
	QuestionID  string
	AnswerIdx   int
	CorrectIdx  int
	IsCorrect   bool
	Points      int
	Score       int
	Explanation string
	// Unlocked содержит достижения, открытые этим ответом.
	Unlocked []models.Achievement
}

// Answer хранит ответ, записанный в сессию.
type Answer struct {
	QuestionIdx int
	QuestionID  string
	AnswerIdx   int
	IsCorrect   bool
	Points      int
	AnsweredAt  time.Time
}

// Snapshot содержит снимок сессии для слоя представления.
type Snapshot struct {
	SessionID   string
	State       State
	QuestionIdx int
	Total       int
	Score       int
	Question    *models.Question
	LastResult  *Result
}

// SessionResults содержит итоги завершенной сессии.
type SessionResults struct {
	SessionID    string
	Score        int
	CorrectCount int
	CorrectIDs   []string
	Total        int
	Answers      []Answer
	TotalTime    time.Duration
}

// QuizEngine определяет интерфейс прохождения квиза одним пользователем.
type QuizEngine interface { //nolint:revive
	// SubmitAnswer регистрирует ответ на вопрос questionIdx (0-based).
	// Повторный ответ на тот же вопрос возвращает исходный Result и ErrAlreadyAnswered.
	SubmitAnswer(ctx context.Context, questionIdx, answerIdx int) (Result, error)

	// SubmitAnswerByID регистрирует ответ на вопрос по его идентификатору.
	SubmitAnswerByID(ctx context.Context, questionID string, answerIdx int) (Result, error)

	// SubmitAnswerByLetter регистрирует ответ на текущий вопрос по букве (A, B, C, D, E, F).
	SubmitAnswerByLetter(ctx context.Context, letter string) (Result, error)

	// Advance переходит к следующему вопросу или завершает квиз.
	Advance() (State, error)

	// Reset начинает новую сессию с нулевым счетом.
	Reset()

	// Snapshot возвращает текущее состояние сессии.
	Snapshot() Snapshot

	// Score возвращает счет текущей сессии.
	Score() int

	// Results возвращает итоги завершенной сессии.
	Results() (*SessionResults, error)

	// ExportCSV экспортирует ответы завершенной сессии в формате CSV.
	ExportCSV() ([]byte, error)
}

// AnswerLetters содержит допустимые буквы для ответов (A-F для до 6 вариантов).
var AnswerLetters = []string{"A", "B", "C", "D", "E", "F"}

// LetterToIndex преобразует букву в индекс (A=0, B=1, ...).
func LetterToIndex(letter string) (int, bool) {
	for i, l := range AnswerLetters {
		if l == letter {
			return i, true
		}
	}

	return -1, false
}

// IndexToLetter преобразует индекс в букву (0=A, 1=B, ...).
func IndexToLetter(idx int) string {
	if idx >= 0 && idx < len(AnswerLetters) {
		return AnswerLetters[idx]
	}

	return ""
}
