package models

import "errors"

// Erros de negócio do registro de imóveis e da contabilidade de frações.
// Todos são terminais: o chamador precisa corrigir a requisição e
// reenviar, nunca há retry automático.
var (
	ErrInvalidParameter    = errors.New("parâmetro inválido")
	ErrUnauthorized        = errors.New("chamador não autorizado")
	ErrPropertyNotFound    = errors.New("imóvel não encontrado")
	ErrPropertyInactive    = errors.New("imóvel inativo para novas compras")
	ErrInsufficientSupply  = errors.New("frações disponíveis insuficientes")
	ErrInsufficientPayment = errors.New("pagamento insuficiente")
	ErrUserNotFound        = errors.New("usuário não encontrado")
)
