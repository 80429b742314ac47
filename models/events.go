package models

import "time"

// Eventos emitidos como efeito colateral das transições, para
// observadores externos. Emissão é fire-and-forget: não há garantia de
// reentrega e nenhuma transição depende deles.

// PropertyAdded é emitido quando um novo imóvel entra no registro.
type PropertyAdded struct {
	EventID          string    `json:"event_id"`
	PropertyID       int64     `json:"property_id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	TotalFractions   int64     `json:"total_fractions"`
	PricePerFraction int64     `json:"price_per_fraction"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// FractionsPurchased é emitido após uma compra confirmada (decremento
// aplicado e frações emitidas no ledger).
type FractionsPurchased struct {
	EventID    string    `json:"event_id"`
	BuyerID    string    `json:"buyer_id"`
	PropertyID int64     `json:"property_id"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StatusChanged é emitido quando o flag de ativação de um imóvel muda
// (ou é reafirmado — a operação é idempotente).
type StatusChanged struct {
	EventID    string    `json:"event_id"`
	PropertyID int64     `json:"property_id"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}
