package quiz

import (
	"fmt"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
)

// isCorrectQuestions проверяет на корректность список вопросов
func isCorrectQuestions(questions []models.Question) error {
	seen := make(map[string]struct{}, len(questions))

	for i, question := range questions {
		if question.ID == "" {
			return fmt.Errorf("missing field id of %d question", i)
		}

		if _, ok := seen[question.ID]; ok {
			return fmt.Errorf("duplicate id %q of %d question", question.ID, i)
		}
		seen[question.ID] = struct{}{}

		if question.Text == "" {
			return fmt.Errorf("missing field text of %d question", i)
		}

		if len(question.Options) < 2 {
			return fmt.Errorf("amount of options must be at least two in %d question", i)
		}

		if len(question.Options) > len(AnswerLetters) {
			return fmt.Errorf("amount of options must be at most %d in %d question", len(AnswerLetters), i)
		}

		if question.Correct < 0 {
			return fmt.Errorf("index of correct answer must not be negative in %d question", i)
		}

		if question.Correct >= len(question.Options) {
			return fmt.Errorf("index of correct answer in %d question is out of range", i)
		}
	}

	return nil
}
