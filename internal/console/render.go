package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/quiz"
)

var (
	bold     = color.New(color.Bold)
	locked   = color.New(color.FgHiBlack)
	unlocked = color.New(color.FgGreen)
	correct  = color.New(color.FgGreen, color.Bold)
	wrong    = color.New(color.FgRed, color.Bold)
	favorite = color.New(color.FgYellow)
)

// Цвета статусов, сложностей и редкостей принадлежат только консоли.
var statusColors = map[models.ConservationStatus]*color.Color{
	models.StatusExtinct:              color.New(color.FgHiBlack),
	models.StatusCriticallyEndangered: color.New(color.FgRed),
	models.StatusEndangered:           color.New(color.FgHiRed),
	models.StatusVulnerable:           color.New(color.FgYellow),
	models.StatusNearThreatened:       color.New(color.FgHiYellow),
	models.StatusLeastConcern:         color.New(color.FgGreen),
}

var difficultyColors = map[models.Difficulty]*color.Color{
	models.DifficultyEasy:   color.New(color.FgGreen),
	models.DifficultyMedium: color.New(color.FgYellow),
	models.DifficultyHard:   color.New(color.FgRed),
}

var rarityColors = map[models.Rarity]*color.Color{
	models.RarityCommon:    color.New(color.FgWhite),
	models.RarityRare:      color.New(color.FgBlue),
	models.RarityEpic:      color.New(color.FgMagenta),
	models.RarityLegendary: color.New(color.FgHiYellow),
}

func statusColor(s models.ConservationStatus) *color.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}

	return color.New(color.Reset)
}

func difficultyColor(d models.Difficulty) *color.Color {
	if c, ok := difficultyColors[d]; ok {
		return c
	}

	return color.New(color.Reset)
}

func rarityColor(r models.Rarity) *color.Color {
	if c, ok := rarityColors[r]; ok {
		return c
	}

	return color.New(color.Reset)
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func (c *Console) speciesLine(s models.Species) string {
	star := " "
	if c.store.Favorites().IsFavorite(s.ID) {
		star = favorite.Sprint("*")
	}

	return fmt.Sprintf("%s %-16s %s (%s) [%s]",
		star, s.ID, bold.Sprint(s.Name), s.ScientificName, statusColor(s.Status).Sprint(s.Status))
}

func (c *Console) printSpecies(s models.Species, isFavorite bool) {
	title := bold.Sprint(s.Name)
	if isFavorite {
		title += favorite.Sprint(" *")
	}

	c.println(title)
	c.printf("  %s\n", s.ScientificName)
	c.printf("  Status:   %s\n", statusColor(s.Status).Sprint(s.Status))
	c.printf("  Region:   %s\n", s.Region)
	c.printf("  Habitat:  %s\n", s.Habitat)
	c.printf("  Weight:   %s\n", s.Weight)
	c.printf("  Length:   %s\n", s.Length)
	c.printf("  Lifespan: %s\n", s.Lifespan)
	c.printf("  Diet:     %s\n", s.Diet)
	c.printf("\n  %s\n", s.Description)

	for _, fact := range s.Facts {
		c.printf("  - %s\n", fact)
	}
}

func (c *Console) printSnapshot(snap quiz.Snapshot) {
	switch snap.State {
	case quiz.StateEmpty:
		c.println(msgNoQuestions)
		return
	case quiz.StateCompleted:
		c.println(msgQuizCompleted)
		return
	}

	q := snap.Question
	c.printf("Question %d of %d [%s] score %d\n",
		snap.QuestionIdx+1, snap.Total, difficultyColor(q.Difficulty).Sprint(q.Difficulty), snap.Score)
	c.println(bold.Sprint(q.Text))

	for i, option := range q.Options {
		c.printf("  %s) %s\n", quiz.IndexToLetter(i), option)
	}

	if snap.State == quiz.StateShowingResult && snap.LastResult != nil {
		c.printResult(*snap.LastResult)
	}
}

func (c *Console) printResult(res quiz.Result) {
	if res.IsCorrect {
		c.printf("%s +%d points, score %d\n", correct.Sprint(msgCorrect), res.Points, res.Score)
	} else {
		c.printf("%s Correct answer: %s\n", wrong.Sprint(msgIncorrect), quiz.IndexToLetter(res.CorrectIdx))
	}

	if res.Explanation != "" {
		c.println(res.Explanation)
	}

	if len(res.Unlocked) > 0 {
		titles := make([]string, 0, len(res.Unlocked))
		for _, a := range res.Unlocked {
			titles = append(titles, a.Icon+" "+a.Title)
		}

		c.println(unlocked.Sprint("Achievement unlocked: " + strings.Join(titles, ", ")))
	}

	c.println(`Type "next" to continue.`)
}
