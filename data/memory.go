package data

import (
	"fmt"
	"math"
	"sync"

	"github.com/ferreirogomes/imofrac/models"
)

// MemoryStore é uma implementação em memória do registro de imóveis,
// com a mesma semântica da implementação PostgreSQL. Usada nos testes e
// em execução local sem banco.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	properties map[int64]models.Property
	users      map[string]models.User
}

// NewMemoryStore cria um registro vazio. O primeiro imóvel recebe ID 1;
// IDs nunca são reutilizados.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties: make(map[int64]models.Property),
		users:      make(map[string]models.User),
	}
}

// CreateProperty armazena um novo imóvel e devolve o ID atribuído.
func (s *MemoryStore) CreateProperty(p models.Property) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.properties[p.ID] = p
	return p.ID, nil
}

// GetProperty busca um imóvel pelo ID.
func (s *MemoryStore) GetProperty(id int64) (models.Property, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	return p, ok, nil
}

// ListProperties devolve todos os imóveis em ordem de ID.
func (s *MemoryStore) ListProperties() ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	props := make([]models.Property, 0, len(s.properties))
	for id := int64(1); id <= s.nextID; id++ {
		if p, ok := s.properties[id]; ok {
			props = append(props, p)
		}
	}
	return props, nil
}

// SetPropertyActive ajusta o flag de ativação.
func (s *MemoryStore) SetPropertyActive(id int64, active bool) (models.Property, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return models.Property{}, false, nil
	}
	p.IsActive = active
	s.properties[id] = p
	return p, true, nil
}

// PurchaseFractions executa a seção crítica de compra sob o mutex do
// store: precondições na ordem do contrato, decremento e mint como um
// par atômico. Se mint falhar, o decremento não é aplicado.
func (s *MemoryStore) PurchaseFractions(propertyID, amount, payment int64, mint models.MintFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[propertyID]
	if !ok {
		return models.ErrPropertyNotFound
	}
	if !p.IsActive {
		return models.ErrPropertyInactive
	}
	if amount <= 0 {
		return fmt.Errorf("%w: quantidade de frações deve ser positiva", models.ErrInvalidParameter)
	}
	if amount > p.AvailableFractions {
		return models.ErrInsufficientSupply
	}
	if amount > math.MaxInt64/p.PricePerFraction {
		return fmt.Errorf("%w: total da compra excede o limite aritmético", models.ErrInvalidParameter)
	}
	if payment < p.PricePerFraction*amount {
		return models.ErrInsufficientPayment
	}

	p.AvailableFractions -= amount
	if err := mint(p); err != nil {
		return fmt.Errorf("falha ao emitir frações no ledger: %w", err)
	}

	s.properties[propertyID] = p
	return nil
}

// SaveUser insere ou substitui um investidor.
func (s *MemoryStore) SaveUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	return nil
}

// GetUser busca um investidor pelo ID.
func (s *MemoryStore) GetUser(id string) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	return u, ok, nil
}
