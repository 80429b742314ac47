package data_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ferreirogomes/imofrac/data"
	"github.com/ferreirogomes/imofrac/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProperty(total, price int64) models.Property {
	return models.Property{
		Name:               "Edifício Aurora, apto 1201",
		Location:           "São Paulo, SP",
		TotalFractions:     total,
		PricePerFraction:   price,
		AvailableFractions: total,
		IsActive:           true,
		MintAddress:        "4Nd1mYQciq8qf2PSMEMQU3Cnc6xYrKDgbQEKDZbBpVCe",
		CreatedAt:          time.Now(),
	}
}

func TestCreatePropertySequentialIDs(t *testing.T) {
	store := data.NewMemoryStore()

	for want := int64(1); want <= 3; want++ {
		id, err := store.CreateProperty(newProperty(100, 10))
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	// ID 0 nunca é atribuído.
	_, found, err := store.GetProperty(0)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConcurrentCreateUniqueIDs(t *testing.T) {
	store := data.NewMemoryStore()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.CreateProperty(newProperty(100, 10))
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	var max int64
	for id := range ids {
		assert.False(t, seen[id], "ID %d atribuído duas vezes", id)
		seen[id] = true
		if id > max {
			max = id
		}
	}
	assert.Equal(t, int64(n), max)
}

func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	store := data.NewMemoryStore()

	id, err := store.CreateProperty(newProperty(100, 10))
	require.NoError(t, err)

	// 20 compradores disputando 100 frações em lotes de 10: exatamente
	// 10 compras passam, o resto falha por oferta insuficiente.
	const buyers = 20
	var minted atomic.Int64
	var successes atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.PurchaseFractions(id, 10, 100, func(p models.Property) error {
				minted.Add(10)
				return nil
			})
			if err == nil {
				successes.Add(1)
				return
			}
			assert.ErrorIs(t, err, models.ErrInsufficientSupply)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), successes.Load())
	assert.Equal(t, int64(100), minted.Load())

	p, found, err := store.GetProperty(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(0), p.AvailableFractions)
	assert.GreaterOrEqual(t, p.AvailableFractions, int64(0))
}

func TestPurchaseFractionsMintFailureKeepsState(t *testing.T) {
	store := data.NewMemoryStore()

	id, err := store.CreateProperty(newProperty(100, 10))
	require.NoError(t, err)

	mintErr := errors.New("rpc indisponível")
	err = store.PurchaseFractions(id, 30, 300, func(p models.Property) error {
		// Dentro da seção crítica o decremento já aparece aplicado.
		assert.Equal(t, int64(70), p.AvailableFractions)
		return mintErr
	})
	require.ErrorIs(t, err, mintErr)

	p, _, err := store.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.AvailableFractions)
}

func TestPurchaseFractionsPreconditionOrder(t *testing.T) {
	store := data.NewMemoryStore()

	id, err := store.CreateProperty(newProperty(100, 10))
	require.NoError(t, err)

	noMint := func(models.Property) error {
		t.Fatal("mint não deveria ser chamado em falha de precondição")
		return nil
	}

	// Inexistente vence qualquer outra condição.
	err = store.PurchaseFractions(42, 10, 100, noMint)
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)

	// Inativo vence oferta e pagamento.
	_, _, err = store.SetPropertyActive(id, false)
	require.NoError(t, err)
	err = store.PurchaseFractions(id, 10, 100, noMint)
	assert.ErrorIs(t, err, models.ErrPropertyInactive)
	_, _, err = store.SetPropertyActive(id, true)
	require.NoError(t, err)

	// Oferta insuficiente vence pagamento insuficiente.
	err = store.PurchaseFractions(id, 200, 1, noMint)
	assert.ErrorIs(t, err, models.ErrInsufficientSupply)

	// Pagamento é a última barreira.
	err = store.PurchaseFractions(id, 10, 99, noMint)
	assert.ErrorIs(t, err, models.ErrInsufficientPayment)

	p, _, err := store.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.AvailableFractions)
}

func TestSetPropertyActiveNotFound(t *testing.T) {
	store := data.NewMemoryStore()

	_, found, err := store.SetPropertyActive(7, false)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveAndGetUser(t *testing.T) {
	store := data.NewMemoryStore()

	user := models.User{
		ID:           "user-1",
		Name:         "Investidor",
		Email:        "a@b.com",
		SolanaPubKey: "4Nd1mYQciq8qf2PSMEMQU3Cnc6xYrKDgbQEKDZbBpVCe",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.SaveUser(user))

	got, found, err := store.GetUser("user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, user.Email, got.Email)

	_, found, err = store.GetUser("user-2")
	require.NoError(t, err)
	assert.False(t, found)
}
