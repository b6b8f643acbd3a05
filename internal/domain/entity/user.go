package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu  UserState = "main_menu" // В главном меню
	StateCapturing UserState = "capturing" // Идёт съёмка прокрутки
	StateExporting UserState = "exporting" // Сборка итогового изображения
)

// User представляет пользователя бота
type User struct {
	ID        int64           // Telegram User ID
	ChatID    int64           // Telegram Chat ID
	State     UserState       // Текущее состояние пользователя
	Direction ScrollDirection // Направление текущей сессии
	Hint      Edge            // Край, к которому ожидаются следующие кадры
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
		Hint:   Trailing,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Capturing сообщает, идёт ли сессия склейки
func (u *User) Capturing() bool {
	return u.State == StateCapturing
}
