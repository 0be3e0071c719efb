package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
)

//go:embed data/catalog.json
var embeddedCatalog []byte

// ErrCatalogLoad возвращается, если каталог не удалось разобрать или он некорректен.
// Частично загруженный каталог никогда не отдается.
var ErrCatalogLoad = errors.New("catalog load error")

// Catalog хранит неизменяемые справочные данные приложения.
// Порядок элементов совпадает с порядком объявления в источнике.
type Catalog struct {
	species      []models.Species
	questions    []models.Question
	gallery      []models.GalleryItem
	achievements []models.Achievement
	avatars      []models.Avatar

	speciesIdx map[string]int
}

// rawCatalog описывает формат JSON источника каталога.
type rawCatalog struct {
	Species      []models.Species     `json:"species" validate:"dive"`
	Questions    []models.Question    `json:"questions" validate:"dive"`
	Gallery      []models.GalleryItem `json:"gallery" validate:"dive"`
	Achievements []models.Achievement `json:"achievements" validate:"dive"`
	Avatars      []models.Avatar      `json:"avatars" validate:"dive"`
}

// Load загружает встроенный в бинарник каталог.
func Load() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Parse парсит JSON и создаёт каталог.
// Любая ошибка оборачивает ErrCatalogLoad.
func Parse(data []byte) (*Catalog, error) {
	raw := &rawCatalog{}
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}

	if err := isCorrectCatalog(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}

	c := &Catalog{
		species:      raw.Species,
		questions:    raw.Questions,
		gallery:      raw.Gallery,
		achievements: raw.Achievements,
		avatars:      raw.Avatars,
		speciesIdx:   make(map[string]int, len(raw.Species)),
	}

	for i, s := range c.species {
		c.speciesIdx[s.ID] = i
	}

	return c, nil
}

// Species возвращает копии всех видов в порядке каталога.
func (c *Catalog) Species() []models.Species {
	species := make([]models.Species, len(c.species))
	for i, s := range c.species {
		species[i] = s.Clone()
	}

	return species
}

// SpeciesByID возвращает вид по идентификатору.
func (c *Catalog) SpeciesByID(id string) (models.Species, bool) {
	i, ok := c.speciesIdx[id]
	if !ok {
		return models.Species{}, false
	}

	return c.species[i].Clone(), true
}

// Questions возвращает копии вопросов квиза в порядке прохождения.
func (c *Catalog) Questions() []models.Question {
	questions := make([]models.Question, len(c.questions))
	for i, q := range c.questions {
		questions[i] = q.Clone()
	}

	return questions
}

// Gallery возвращает все карточки галереи.
func (c *Catalog) Gallery() []models.GalleryItem {
	return append([]models.GalleryItem(nil), c.gallery...)
}

// AchievementDefs возвращает статические определения достижений (все заблокированы).
func (c *Catalog) AchievementDefs() []models.Achievement {
	return append([]models.Achievement(nil), c.achievements...)
}

// Avatars возвращает все аватары в порядке каталога.
func (c *Catalog) Avatars() []models.Avatar {
	return append([]models.Avatar(nil), c.avatars...)
}
