package models

// Файл с моделями предметной области, которые доступны извне.
// Каталог создает экземпляры моделей один раз при старте, менеджеры
// отдают их копии слою представления.

// ConservationStatus описывает охранный статус вида.
type ConservationStatus string

const (
	StatusExtinct              ConservationStatus = "extinct"
	StatusCriticallyEndangered ConservationStatus = "critically-endangered"
	StatusEndangered           ConservationStatus = "endangered"
	StatusVulnerable           ConservationStatus = "vulnerable"
	StatusNearThreatened       ConservationStatus = "near-threatened"
	StatusLeastConcern         ConservationStatus = "least-concern"
)

// Region описывает регион обитания вида.
type Region string

const (
	RegionNorthAmerica Region = "north-america"
	RegionEurope       Region = "europe"
	RegionAsia         Region = "asia"
	RegionArctic       Region = "arctic"
	RegionMiddleEast   Region = "middle-east"
)

// Regions возвращает все регионы в порядке объявления.
func Regions() []Region {
	return []Region{RegionNorthAmerica, RegionEurope, RegionAsia, RegionArctic, RegionMiddleEast}
}

// Difficulty описывает сложность вопроса квиза.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rarity описывает редкость аватара.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Species определяет модель вида волка в энциклопедии.
type Species struct {
	ID             string             `json:"id" validate:"required"`
	Name           string             `json:"name" validate:"required"`
	ScientificName string             `json:"scientific_name" validate:"required"`
	Description    string             `json:"description"`
	Habitat        string             `json:"habitat"`
	Weight         string             `json:"weight"`
	Length         string             `json:"length"`
	Lifespan       string             `json:"lifespan"`
	Diet           string             `json:"diet"`
	Status         ConservationStatus `json:"conservation_status" validate:"required,oneof=extinct critically-endangered endangered vulnerable near-threatened least-concern"`
	Region         Region             `json:"region" validate:"required,oneof=north-america europe asia arctic middle-east"`
	Facts          []string           `json:"facts"`
	Image          string             `json:"image"`
}

// Clone возвращает копию вида, не разделяющую Facts с оригиналом.
func (s Species) Clone() Species {
	s.Facts = append([]string(nil), s.Facts...)
	return s
}

// Question определяет модель вопроса квиза.
type Question struct {
	ID          string     `json:"id" validate:"required"`
	Text        string     `json:"text" validate:"required"`
	Options     []string   `json:"options" validate:"min=2,max=6,dive,required"`
	Correct     int        `json:"correct" validate:"gte=0"`
	Explanation string     `json:"explanation"`
	Difficulty  Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// Clone возвращает копию вопроса, не разделяющую Options с оригиналом.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// GalleryItem определяет модель карточки галереи.
type GalleryItem struct {
	ID       string `json:"id" validate:"required"`
	Image    string `json:"image"`
	Title    string `json:"title" validate:"required"`
	Fact     string `json:"fact"`
	Category string `json:"category"`
}

// Achievement определяет модель достижения.
// IsUnlocked единственное изменяемое поле, оно переходит false -> true один раз.
type Achievement struct {
	ID            string `json:"id" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	RequiredScore int    `json:"required_score" validate:"gte=0"`
	IsUnlocked    bool   `json:"-"`
}

// Avatar определяет модель аватара профиля.
type Avatar struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity" validate:"required,oneof=common rare epic legendary"`
	UnlockScore int    `json:"unlock_score" validate:"gte=0"`
}

// Profile определяет модель профиля пользователя.
type Profile struct {
	UserName       string
	SelectedAvatar string
}
