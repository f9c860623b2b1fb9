package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered citizen account.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Mobile       string `json:"mobile"`
	Address      string `json:"address"`
	PasswordHash string `json:"-"`
}

// BeforeCreate is a GORM hook that runs before a record is inserted.
// It generates a new UUID for the user if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
