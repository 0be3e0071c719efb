package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// isCorrectCatalog проверяет на корректность структуру каталога
func isCorrectCatalog(raw *rawCatalog) error {
	if err := validate.Struct(raw); err != nil {
		return fmt.Errorf("invalid catalog entry: %w", err)
	}

	if err := uniqueIDs("species", len(raw.Species), func(i int) string { return raw.Species[i].ID }); err != nil {
		return err
	}

	if err := uniqueIDs("question", len(raw.Questions), func(i int) string { return raw.Questions[i].ID }); err != nil {
		return err
	}

	if err := uniqueIDs("gallery item", len(raw.Gallery), func(i int) string { return raw.Gallery[i].ID }); err != nil {
		return err
	}

	if err := uniqueIDs("achievement", len(raw.Achievements), func(i int) string { return raw.Achievements[i].ID }); err != nil {
		return err
	}

	if err := uniqueIDs("avatar", len(raw.Avatars), func(i int) string { return raw.Avatars[i].ID }); err != nil {
		return err
	}

	for i, question := range raw.Questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("amount of options must be at least two in %d question", i)
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

func uniqueIDs(kind string, n int, idAt func(int) string) error {
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		id := idAt(i)
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate %s id %q", kind, id)
		}

		seen[id] = struct{}{}
	}

	return nil
}
