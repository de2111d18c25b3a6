package models

import "time"

// User represents an application account (local signup, bcrypt-hashed password).
type User struct {
	ID           string    `bson:"_id,omitempty" json:"-"`
	UserID       string    `bson:"userId" json:"userId"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
