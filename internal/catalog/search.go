package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
)

// minFuzzyQuery задает минимальную длину запроса, с которой включается нечеткий поиск.
const minFuzzyQuery = 3

// SpeciesFilter содержит параметры поиска по энциклопедии.
// Пустые поля не ограничивают выборку.
type SpeciesFilter struct {
	Region models.Region
	Query  string
}

// Filter возвращает виды, подходящие под фильтр, в порядке каталога.
// Запрос сравнивается с названием и научным названием без учета регистра,
// опечатки в одном слове допускаются.
func (c *Catalog) Filter(f SpeciesFilter) []models.Species {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	result := make([]models.Species, 0, len(c.species))
	for _, s := range c.species {
		if f.Region != "" && s.Region != f.Region {
			continue
		}

		if query != "" && !matchesQuery(s, query) {
			continue
		}

		result = append(result, s.Clone())
	}

	return result
}

func matchesQuery(s models.Species, query string) bool {
	name := strings.ToLower(s.Name)
	scientific := strings.ToLower(s.ScientificName)

	if strings.Contains(name, query) || strings.Contains(scientific, query) {
		return true
	}

	if utf8.RuneCountInString(query) < minFuzzyQuery || strings.Contains(query, " ") {
		return false
	}

	words := append(strings.Fields(name), strings.Fields(scientific)...)
	for _, word := range words {
		if levenshtein.ComputeDistance(query, word) <= fuzzyLimit(utf8.RuneCountInString(word)) {
			return true
		}
	}

	return false
}

func fuzzyLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// ParseRegion преобразует строку в регион. Возвращает false для неизвестного региона.
func ParseRegion(s string) (models.Region, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range models.Regions() {
		if string(r) == s {
			return r, true
		}
	}

	return "", false
}

// GalleryCategories возвращает различные категории галереи в порядке первого появления.
func (c *Catalog) GalleryCategories() []string {
	seen := make(map[string]struct{}, len(c.gallery))
	categories := make([]string, 0, len(c.gallery))

	for _, item := range c.gallery {
		if _, ok := seen[item.Category]; ok {
			continue
		}

		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}

	return categories
}

// GalleryByCategory возвращает карточки одной категории (без учета регистра).
func (c *Catalog) GalleryByCategory(category string) []models.GalleryItem {
	items := make([]models.GalleryItem, 0, len(c.gallery))
	for _, item := range c.gallery {
		if strings.EqualFold(item.Category, category) {
			items = append(items, item)
		}
	}

	return items
}
