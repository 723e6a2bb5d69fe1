package models

import (
	"database/sql"
	"fmt"
	"time"
)

// User — пользователь, у которого открыт диалог (топик) в рабочей группе.
// У каждого пользователя ровно один топик и наоборот.
type User struct {
	UserID    int64
	Username  sql.NullString
	ThreadID  int
	CreatedAt time.Time
}

// DisplayName возвращает username или запасное имя, если username скрыт.
func (u *User) DisplayName() string {
	if u.Username.Valid && u.Username.String != "" {
		return u.Username.String
	}
	return fmt.Sprintf("User_%d", u.UserID)
}
