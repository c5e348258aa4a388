package models

import "github.com/google/uuid"

// User is identified by their Telegram id; Name is whatever the bot
// reported last and may be updated on re-registration.
type User struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TelegramID int64     `json:"telegram_id"`
}
