package db

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed password
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type PlayerStats struct {
	PlayerID  string    `json:"player_id" db:"player_id"`
	Wins      int       `json:"wins" db:"wins"`
	Losses    int       `json:"losses" db:"losses"`
	Shots     int       `json:"shots" db:"shots"`
	Hits      int       `json:"hits" db:"hits"`
	Elo       int       `json:"elo" db:"elo"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
