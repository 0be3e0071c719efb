package persist

import "errors"

// Ключи хранилища.
const (
	KeyFavorites      = "favorites"
	KeyAchievements   = "achievements"
	KeySelectedAvatar = "selectedAvatar"
	KeyUserName       = "userName"
)

// schemaVersion задает текущую версию формата записей.
const schemaVersion = 1

// ErrCorruptState возвращается, если сохраненное значение не удалось разобрать.
// Вызывающая сторона должна заменить его значением по умолчанию.
var ErrCorruptState = errors.New("corrupt persisted state")

// FavoritesRecord хранит избранные виды.
type FavoritesRecord struct {
	Version int      `json:"version"`
	IDs     []string `json:"ids"`
}

// AchievementState содержит сохраняемую часть достижения.
type AchievementState struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
}

// AchievementsRecord хранит состояния достижений.
type AchievementsRecord struct {
	Version int                `json:"version"`
	Items   []AchievementState `json:"items"`
}

// AvatarRecord хранит выбранный аватар.
type AvatarRecord struct {
	ID string `json:"id"`
}

// UserNameRecord хранит имя пользователя.
type UserNameRecord struct {
	Name string `json:"name"`
}
