package services

// Authorizer decide se um chamador pode executar operações
// privilegiadas (cadastro de imóveis, mudança de status).
type Authorizer interface {
	IsAuthorized(callerID string) bool
}

// OwnerAuthService é a implementação de dono único: apenas o usuário
// configurado na inicialização passa pelo gate.
type OwnerAuthService struct {
	OwnerID string
}

// NewOwnerAuthService cria o gate de autorização de dono único.
func NewOwnerAuthService(ownerID string) *OwnerAuthService {
	return &OwnerAuthService{OwnerID: ownerID}
}

// IsAuthorized verifica se o chamador é o dono da plataforma.
func (a *OwnerAuthService) IsAuthorized(callerID string) bool {
	return callerID != "" && callerID == a.OwnerID
}
