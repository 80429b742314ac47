package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ferreirogomes/imofrac/models"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserEndpoint(t *testing.T) {
	r, _, _ := newRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users", "", map[string]string{
		"name":           "Investidor Teste",
		"email":          "investidor@teste.com",
		"solana_pub_key": solana.NewWallet().PublicKey().String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Investidor Teste", user.Name)
}

func TestCreateUserEndpointMissingFields(t *testing.T) {
	r, _, _ := newRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users", "", map[string]string{
		"email": "investidor@teste.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserEndpointInvalidWallet(t *testing.T) {
	r, _, _ := newRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users", "", map[string]string{
		"name":           "Investidor Teste",
		"email":          "investidor@teste.com",
		"solana_pub_key": "carteira-inválida",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserEndpoint(t *testing.T) {
	r, _, _ := newRouter(t)

	created := createBuyer(t, r)

	rec := doJSON(t, r, http.MethodGet, "/users/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.SolanaPubKey, user.SolanaPubKey)

	rec = doJSON(t, r, http.MethodGet, "/users/nao-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
