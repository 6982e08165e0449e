package models

// Identity внешняя учётная запись, разрешённая из сессионного токена.
// Это ещё не локальный пользователь: тень в базе создаётся лениво,
// когда операции нужен foreign key.
type Identity struct {
	StackUserID string
	Email       string
	Name        string
}
