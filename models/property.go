package models

import "time"

// Property representa um imóvel registrado para venda fracionada.
type Property struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`                               // Ex: "Edifício Aurora, apto 1201"
	Location           string    `json:"location" db:"location"`                       // Ex: "São Paulo, SP"
	TotalFractions     int64     `json:"total_fractions" db:"total_fractions"`         // Oferta total de frações, fixa na criação
	PricePerFraction   int64     `json:"price_per_fraction" db:"price_per_fraction"`   // Preço por fração, na menor unidade monetária
	AvailableFractions int64     `json:"available_fractions" db:"available_fractions"` // Frações ainda não vendidas
	IsActive           bool      `json:"is_active" db:"is_active"`                     // Imóveis inativos não aceitam novas compras
	MintAddress        string    `json:"mint_address" db:"mint_address"`               // Endereço do Mint SPL que representa as frações na Solana
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// MintFunc é executada dentro da seção crítica de compra, com o registro
// do imóvel já travado e o decremento aplicado. Se retornar erro, o
// decremento é desfeito junto.
type MintFunc func(p Property) error
