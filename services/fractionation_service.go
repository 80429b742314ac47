package services

import (
	"fmt"
	"time"

	"github.com/ferreirogomes/imofrac/events"
	"github.com/ferreirogomes/imofrac/models"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// Base do locator de metadados off-chain. O documento de um imóvel fica
// sempre em <base><id><sufixo>.
const (
	metadataBaseURI = "https://metadata.imofrac.com/properties/"
	metadataSuffix  = ".json"
)

// Store é a persistência do registro de imóveis e investidores. A
// implementação PostgreSQL fica em storage; a de memória, em data.
type Store interface {
	CreateProperty(p models.Property) (int64, error)
	GetProperty(id int64) (models.Property, bool, error)
	ListProperties() ([]models.Property, error)
	SetPropertyActive(id int64, active bool) (models.Property, bool, error)
	PurchaseFractions(propertyID, amount, payment int64, mint models.MintFunc) error
	SaveUser(u models.User) error
	GetUser(id string) (models.User, bool, error)
}

// Ledger é o ledger externo de propriedade das frações. A contabilidade
// só escreve (cria mints e emite frações); os saldos por carteira vivem
// exclusivamente no ledger.
type Ledger interface {
	CreateAssetMint(propertyName string) (solana.PublicKey, error)
	MintFractions(mint, owner solana.PublicKey, amount uint64) (solana.Signature, error)
	FractionBalance(mint, owner solana.PublicKey) (uint64, error)
	FractionSupply(mint solana.PublicKey) (uint64, error)
}

// FractionationService orquestra as transições da venda fracionada:
// cadastro de imóveis, compra de frações e mudança de status. Valida as
// precondições contra o registro e dispara a emissão no ledger externo.
type FractionationService struct {
	Store    Store
	Ledger   Ledger
	Auth     Authorizer
	Notifier events.Notifier
}

// NewFractionationService cria o serviço de contabilidade de frações.
func NewFractionationService(store Store, ledger Ledger, auth Authorizer, notifier events.Notifier) *FractionationService {
	return &FractionationService{
		Store:    store,
		Ledger:   ledger,
		Auth:     auth,
		Notifier: notifier,
	}
}

// AddProperty registra um novo imóvel para venda fracionada. Apenas o
// dono da plataforma pode chamar. A oferta e o preço são fixos após a
// criação; o imóvel nasce ativo e com todas as frações disponíveis.
func (s *FractionationService) AddProperty(callerID, name, location string, totalFractions, pricePerFraction int64) (models.Property, error) {
	if !s.Auth.IsAuthorized(callerID) {
		return models.Property{}, models.ErrUnauthorized
	}
	if totalFractions <= 0 {
		return models.Property{}, fmt.Errorf("%w: total de frações deve ser positivo", models.ErrInvalidParameter)
	}
	if pricePerFraction <= 0 {
		return models.Property{}, fmt.Errorf("%w: preço por fração deve ser positivo", models.ErrInvalidParameter)
	}

	mintAddress, err := s.Ledger.CreateAssetMint(name)
	if err != nil {
		return models.Property{}, fmt.Errorf("falha ao criar mint do imóvel: %w", err)
	}

	property := models.Property{
		Name:               name,
		Location:           location,
		TotalFractions:     totalFractions,
		PricePerFraction:   pricePerFraction,
		AvailableFractions: totalFractions,
		IsActive:           true,
		MintAddress:        mintAddress.String(),
		CreatedAt:          time.Now(),
	}

	id, err := s.Store.CreateProperty(property)
	if err != nil {
		return models.Property{}, err
	}
	property.ID = id

	s.Notifier.Publish(models.PropertyAdded{
		EventID:          uuid.New().String(),
		PropertyID:       property.ID,
		Name:             property.Name,
		Location:         property.Location,
		TotalFractions:   property.TotalFractions,
		PricePerFraction: property.PricePerFraction,
		OccurredAt:       time.Now(),
	})

	return property, nil
}

// PurchaseFractions compra frações de um imóvel para um investidor. As
// precondições são verificadas nesta ordem, e a primeira falha aborta
// sem efeito algum: imóvel existe; está ativo; há frações suficientes;
// o pagamento cobre preço * quantidade. Pagamento acima do necessário é
// aceito e não devolvido. O decremento da oferta e a emissão no ledger
// acontecem como um par atômico dentro da seção crítica do store.
func (s *FractionationService) PurchaseFractions(buyerID string, propertyID, amount, payment int64) error {
	buyer, found, err := s.Store.GetUser(buyerID)
	if err != nil {
		return fmt.Errorf("falha ao buscar comprador: %w", err)
	}
	if !found || buyer.SolanaPubKey == "" {
		return fmt.Errorf("%w: comprador sem carteira cadastrada", models.ErrUserNotFound)
	}

	ownerPubKey, err := solana.PublicKeyFromBase58(buyer.SolanaPubKey)
	if err != nil {
		return fmt.Errorf("%w: carteira do comprador inválida", models.ErrInvalidParameter)
	}

	err = s.Store.PurchaseFractions(propertyID, amount, payment, func(p models.Property) error {
		mintAddress, err := solana.PublicKeyFromBase58(p.MintAddress)
		if err != nil {
			return fmt.Errorf("endereço de Mint inválido no registro: %w", err)
		}
		_, err = s.Ledger.MintFractions(mintAddress, ownerPubKey, uint64(amount))
		return err
	})
	if err != nil {
		return err
	}

	s.Notifier.Publish(models.FractionsPurchased{
		EventID:    uuid.New().String(),
		BuyerID:    buyerID,
		PropertyID: propertyID,
		Amount:     amount,
		OccurredAt: time.Now(),
	})

	return nil
}

// SetPropertyStatus ativa ou desativa um imóvel. Apenas o dono da
// plataforma pode chamar. Desativação é consultiva: bloqueia novas
// compras, mas frações já emitidas continuam válidas no ledger.
func (s *FractionationService) SetPropertyStatus(callerID string, propertyID int64, active bool) (models.Property, error) {
	if !s.Auth.IsAuthorized(callerID) {
		return models.Property{}, models.ErrUnauthorized
	}

	property, found, err := s.Store.SetPropertyActive(propertyID, active)
	if err != nil {
		return models.Property{}, err
	}
	if !found {
		return models.Property{}, models.ErrPropertyNotFound
	}

	s.Notifier.Publish(models.StatusChanged{
		EventID:    uuid.New().String(),
		PropertyID: propertyID,
		IsActive:   active,
		OccurredAt: time.Now(),
	})

	return property, nil
}

// GetProperty busca um imóvel pelo ID.
func (s *FractionationService) GetProperty(propertyID int64) (models.Property, error) {
	property, found, err := s.Store.GetProperty(propertyID)
	if err != nil {
		return models.Property{}, err
	}
	if !found {
		return models.Property{}, models.ErrPropertyNotFound
	}
	return property, nil
}

// ResolveMetadataLocator devolve o locator do documento de metadados
// off-chain de um imóvel. Função pura de formatação; nenhum estado muda.
func (s *FractionationService) ResolveMetadataLocator(propertyID int64) (string, error) {
	if _, err := s.GetProperty(propertyID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d%s", metadataBaseURI, propertyID, metadataSuffix), nil
}

// FractionBalance consulta no ledger quantas frações de um imóvel o
// investidor possui.
func (s *FractionationService) FractionBalance(propertyID int64, userID string) (uint64, error) {
	property, err := s.GetProperty(propertyID)
	if err != nil {
		return 0, err
	}

	user, found, err := s.Store.GetUser(userID)
	if err != nil {
		return 0, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	if !found || user.SolanaPubKey == "" {
		return 0, fmt.Errorf("%w: usuário sem carteira cadastrada", models.ErrUserNotFound)
	}

	mintAddress, err := solana.PublicKeyFromBase58(property.MintAddress)
	if err != nil {
		return 0, fmt.Errorf("endereço de Mint inválido no registro: %w", err)
	}
	ownerPubKey, err := solana.PublicKeyFromBase58(user.SolanaPubKey)
	if err != nil {
		return 0, fmt.Errorf("%w: carteira do usuário inválida", models.ErrInvalidParameter)
	}

	return s.Ledger.FractionBalance(mintAddress, ownerPubKey)
}

// RegisterUser cadastra um investidor com sua carteira Solana.
func (s *FractionationService) RegisterUser(name, email, solanaPubKey string) (models.User, error) {
	if name == "" || email == "" {
		return models.User{}, fmt.Errorf("%w: nome e email são obrigatórios", models.ErrInvalidParameter)
	}
	if _, err := solana.PublicKeyFromBase58(solanaPubKey); err != nil {
		return models.User{}, fmt.Errorf("%w: carteira Solana inválida", models.ErrInvalidParameter)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		SolanaPubKey: solanaPubKey,
		CreatedAt:    time.Now(),
	}
	if err := s.Store.SaveUser(user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUser busca um investidor pelo ID.
func (s *FractionationService) GetUser(userID string) (models.User, error) {
	user, found, err := s.Store.GetUser(userID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, models.ErrUserNotFound
	}
	return user, nil
}
