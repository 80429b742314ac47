package models

import "time"

// User representa um investidor cadastrado na plataforma.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	SolanaPubKey string    `json:"solana_pub_key" db:"solana_pub_key"` // Carteira que recebe as frações compradas
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
