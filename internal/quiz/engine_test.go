package quiz

import (
	"context"
	"encoding/csv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
)

type recordingListener struct {
	scores   []int
	unlockAt int
	mu       sync.Mutex
}

func (l *recordingListener) Evaluate(_ context.Context, score int) []models.Achievement {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.scores = append(l.scores, score)
	if l.unlockAt > 0 && score == l.unlockAt {
		return []models.Achievement{{ID: "first-steps", RequiredScore: l.unlockAt, IsUnlocked: true}}
	}

	return nil
}

func twoQuestions() []models.Question {
	return []models.Question{
		{ID: "q1", Text: "First?", Options: []string{"A", "B", "C"}, Correct: 0, Difficulty: models.DifficultyEasy},
		{ID: "q2", Text: "Second?", Options: []string{"A", "B", "C"}, Correct: 2, Difficulty: models.DifficultyHard},
	}
}

func newTestEngine(t *testing.T, questions []models.Question, l Listener) *Engine {
	t.Helper()

	engine, err := NewEngine(questions, l)
	require.NoError(t, err)

	return engine
}

func TestEngine_TwoQuestionScenario(t *testing.T) {
	ctx := context.Background()
	listener := &recordingListener{}
	engine := newTestEngine(t, twoQuestions(), listener)

	snap := engine.Snapshot()
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	assert.Equal(t, 0, snap.QuestionIdx)
	assert.Equal(t, 0, snap.Score)
	require.NotNil(t, snap.Question)
	assert.Equal(t, "q1", snap.Question.ID)

	res, err := engine.SubmitAnswer(ctx, 0, 0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, StateShowingResult, engine.Snapshot().State)

	state, err := engine.Advance()
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingAnswer, state)
	assert.Equal(t, 1, engine.Snapshot().QuestionIdx)

	res, err = engine.SubmitAnswer(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 2, res.CorrectIdx)
	assert.Equal(t, 10, engine.Score())

	state, err = engine.Advance()
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)

	// слушатель вызывается только после правильного ответа
	assert.Equal(t, []int{10}, listener.scores)

	results, err := engine.Results()
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, results.CorrectIDs)
}

func TestEngine_DoubleSubmitReturnsOriginalResult(t *testing.T) {
	ctx := context.Background()
	listener := &recordingListener{}
	engine := newTestEngine(t, twoQuestions(), listener)

	first, err := engine.SubmitAnswer(ctx, 0, 0)
	require.NoError(t, err)

	second, err := engine.SubmitAnswer(ctx, 0, 0)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, first, second)

	// другой вариант ответа тоже не пересчитывается
	third, err := engine.SubmitAnswer(ctx, 0, 2)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, first, third)

	assert.Equal(t, 10, engine.Score())
	assert.Equal(t, []int{10}, listener.scores)
}

func TestEngine_ResultCarriesUnlocked(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, twoQuestions(), &recordingListener{unlockAt: 10})

	res, err := engine.SubmitAnswer(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "first-steps", res.Unlocked[0].ID)

	again, err := engine.SubmitAnswer(ctx, 0, 0)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, res, again)

	snap := engine.Snapshot()
	require.NotNil(t, snap.LastResult)
	assert.Len(t, snap.LastResult.Unlocked, 1)
}

func TestEngine_RejectedTransitions(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		prepare func(e *Engine)
		call    func(e *Engine) error
		wantErr error
	}{
		{
			name: "answer out of range",
			call: func(e *Engine) error {
				_, err := e.SubmitAnswer(ctx, 0, 3)
				return err
			},
			wantErr: ErrInvalidChoice,
		},
		{
			name: "negative answer",
			call: func(e *Engine) error {
				_, err := e.SubmitAnswer(ctx, 0, -1)
				return err
			},
			wantErr: ErrInvalidChoice,
		},
		{
			name: "answer for future question",
			call: func(e *Engine) error {
				_, err := e.SubmitAnswer(ctx, 1, 0)
				return err
			},
			wantErr: ErrQuestionMismatch,
		},
		{
			name:    "next question before advance",
			prepare: func(e *Engine) { _, _ = e.SubmitAnswer(ctx, 0, 0) },
			call: func(e *Engine) error {
				_, err := e.SubmitAnswer(ctx, 1, 0)
				return err
			},
			wantErr: ErrQuestionMismatch,
		},
		{
			name: "advance without answer",
			call: func(e *Engine) error {
				_, err := e.Advance()
				return err
			},
			wantErr: ErrNotAnswered,
		},
		{
			name: "answer after completion",
			prepare: func(e *Engine) {
				_, _ = e.SubmitAnswer(ctx, 0, 0)
				_, _ = e.Advance()
				_, _ = e.SubmitAnswer(ctx, 1, 0)
				_, _ = e.Advance()
			},
			call: func(e *Engine) error {
				_, err := e.SubmitAnswer(ctx, 1, 0)
				return err
			},
			wantErr: ErrQuizCompleted,
		},
		{
			name: "advance after completion",
			prepare: func(e *Engine) {
				_, _ = e.SubmitAnswer(ctx, 0, 0)
				_, _ = e.Advance()
				_, _ = e.SubmitAnswer(ctx, 1, 0)
				_, _ = e.Advance()
			},
			call: func(e *Engine) error {
				_, err := e.Advance()
				return err
			},
			wantErr: ErrQuizCompleted,
		},
		{
			name: "unknown question id",
			call: func(e *Engine) error {
				_, err := e.SubmitAnswerByID(ctx, "q-missing", 0)
				return err
			},
			wantErr: ErrUnknownQuestion,
		},
		{
			name: "unknown letter",
			call: func(e *Engine) error {
				_, err := e.SubmitAnswerByLetter(ctx, "Z")
				return err
			},
			wantErr: ErrInvalidChoice,
		},
		{
			name: "results before completion",
			call: func(e *Engine) error {
				_, err := e.Results()
				return err
			},
			wantErr: ErrQuizNotCompleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine(t, twoQuestions(), nil)
			if tc.prepare != nil {
				tc.prepare(engine)
			}

			before := engine.Snapshot()
			err := tc.call(engine)
			assert.ErrorIs(t, err, tc.wantErr)

			after := engine.Snapshot()
			assert.Equal(t, before.State, after.State)
			assert.Equal(t, before.QuestionIdx, after.QuestionIdx)
			assert.Equal(t, before.Score, after.Score)
		})
	}
}

func TestEngine_Empty(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	assert.Equal(t, StateEmpty, engine.Snapshot().State)
	assert.Nil(t, engine.Snapshot().Question)

	_, err := engine.SubmitAnswer(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = engine.Advance()
	assert.ErrorIs(t, err, ErrNoQuestions)

	engine.Reset()
	assert.Equal(t, StateEmpty, engine.Snapshot().State)
}

func TestEngine_Reset(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, twoQuestions(), nil)

	oldSession := engine.Snapshot().SessionID
	_, err := engine.SubmitAnswer(ctx, 0, 0)
	require.NoError(t, err)
	_, err = engine.Advance()
	require.NoError(t, err)

	engine.Reset()

	snap := engine.Snapshot()
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	assert.Equal(t, 0, snap.QuestionIdx)
	assert.Equal(t, 0, snap.Score)
	assert.Nil(t, snap.LastResult)
	assert.NotEqual(t, oldSession, snap.SessionID)

	// после сброса тот же вопрос снова можно засчитать
	res, err := engine.SubmitAnswer(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Score)
}

func TestEngine_ScoreIsTenTimesCorrect(t *testing.T) {
	ctx := context.Background()
	questions := []models.Question{
		{ID: "a", Text: "A?", Options: []string{"x", "y"}, Correct: 1, Difficulty: models.DifficultyEasy},
		{ID: "b", Text: "B?", Options: []string{"x", "y"}, Correct: 0, Difficulty: models.DifficultyMedium},
		{ID: "c", Text: "C?", Options: []string{"x", "y"}, Correct: 1, Difficulty: models.DifficultyHard},
		{ID: "d", Text: "D?", Options: []string{"x", "y"}, Correct: 0, Difficulty: models.DifficultyHard},
	}
	answers := []int{1, 1, 1, 0}

	engine := newTestEngine(t, questions, nil)
	for i, answer := range answers {
		_, err := engine.SubmitAnswer(ctx, i, answer)
		require.NoError(t, err)
		_, err = engine.Advance()
		require.NoError(t, err)
	}

	results, err := engine.Results()
	require.NoError(t, err)
	assert.Equal(t, 3, results.CorrectCount)
	assert.Equal(t, 30, results.Score)
	assert.Equal(t, []string{"a", "c", "d"}, results.CorrectIDs)
	assert.Equal(t, 10*len(results.CorrectIDs), results.Score)
	assert.Len(t, results.Answers, 4)
}

func TestEngine_SubmitAnswerByIDAndLetter(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, twoQuestions(), nil)

	res, err := engine.SubmitAnswerByID(ctx, "q1", 0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)

	_, err = engine.Advance()
	require.NoError(t, err)

	res, err = engine.SubmitAnswerByLetter(ctx, " c ")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, "q2", res.QuestionID)
	assert.Equal(t, 20, res.Score)
}

func TestNewEngine_InvalidQuestions(t *testing.T) {
	testCases := []struct {
		name      string
		questions []models.Question
	}{
		{
			name:      "missing id",
			questions: []models.Question{{Text: "Q?", Options: []string{"A", "B"}}},
		},
		{
			name: "duplicate id",
			questions: []models.Question{
				{ID: "q", Text: "Q?", Options: []string{"A", "B"}},
				{ID: "q", Text: "Q?", Options: []string{"A", "B"}},
			},
		},
		{
			name:      "one option",
			questions: []models.Question{{ID: "q", Text: "Q?", Options: []string{"A"}}},
		},
		{
			name:      "too many options",
			questions: []models.Question{{ID: "q", Text: "Q?", Options: []string{"A", "B", "C", "D", "E", "F", "G"}}},
		},
		{
			name:      "correct out of range",
			questions: []models.Question{{ID: "q", Text: "Q?", Options: []string{"A", "B"}, Correct: 2}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine, err := NewEngine(tc.questions, nil)
			assert.Error(t, err)
			assert.Nil(t, engine)
		})
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	answeredAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	engine, err := NewEngine(twoQuestions(), nil, WithClock(func() time.Time { return answeredAt }))
	require.NoError(t, err)

	_, err = engine.ExportCSV()
	assert.ErrorIs(t, err, ErrQuizNotCompleted)

	_, _ = engine.SubmitAnswer(ctx, 0, 0)
	_, _ = engine.Advance()
	_, _ = engine.SubmitAnswer(ctx, 1, 1)
	_, _ = engine.Advance()

	csvData, err := engine.ExportCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(csvData))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Contains(t, records[0], "QuestionID")
	assert.Contains(t, records[0], "IsCorrect")
	assert.Equal(t, []string{"1", "q1", "First?", "A", "A", "true", "10", "2024-03-01T12:00:00Z"}, records[1])
	assert.Equal(t, []string{"2", "q2", "Second?", "B", "C", "false", "0", "2024-03-01T12:00:00Z"}, records[2])

	results, err := engine.Results()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), results.TotalTime)
}

func TestLetterConversion(t *testing.T) {
	idx, ok := LetterToIndex("C")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = LetterToIndex("G")
	assert.False(t, ok)

	assert.Equal(t, "F", IndexToLetter(5))
	assert.Equal(t, "", IndexToLetter(6))
}

func TestEngine_ConcurrentSubmitScoresOnce(t *testing.T) {
	ctx := context.Background()
	listener := &recordingListener{}
	engine := newTestEngine(t, twoQuestions(), listener)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = engine.SubmitAnswer(ctx, 0, 0)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, engine.Score())
	assert.Equal(t, []int{10}, listener.scores)
}

func TestEngine_SnapshotDoesNotShareState(t *testing.T) {
	ctx := context.Background()
	questions := twoQuestions()
	engine := newTestEngine(t, questions, &recordingListener{unlockAt: 10})

	// вопросы вызывающей стороны не связаны с движком
	questions[0].Options[0] = "changed"

	snap := engine.Snapshot()
	require.NotNil(t, snap.Question)
	assert.Equal(t, "A", snap.Question.Options[0])

	snap.Question.Options[0] = "changed"
	assert.Equal(t, "A", engine.Snapshot().Question.Options[0])

	_, err := engine.SubmitAnswer(ctx, 0, 0)
	require.NoError(t, err)

	snap = engine.Snapshot()
	require.NotNil(t, snap.LastResult)
	require.Len(t, snap.LastResult.Unlocked, 1)
	snap.LastResult.Unlocked[0].ID = "changed"

	assert.Equal(t, "first-steps", engine.Snapshot().LastResult.Unlocked[0].ID)
}
