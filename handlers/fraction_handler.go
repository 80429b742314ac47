package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/imofrac/services"

	"github.com/go-chi/chi/v5"
)

// FractionHandler lida com as requisições de compra e saldo de frações.
type FractionHandler struct {
	Service *services.FractionationService
}

// NewFractionHandler cria uma nova instância do handler de frações.
func NewFractionHandler(s *services.FractionationService) *FractionHandler {
	return &FractionHandler{Service: s}
}

// Request struct da compra de frações.
type PurchaseFractionsRequest struct {
	BuyerID string `json:"buyer_id"`
	Amount  int64  `json:"amount"`
	Payment int64  `json:"payment"` // Valor anexado, na menor unidade monetária
}

// PurchaseFractions compra frações de um imóvel para um investidor.
// POST /properties/{id}/purchase
func (h *FractionHandler) PurchaseFractions(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDParam(r)
	if !ok {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var req PurchaseFractionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.PurchaseFractions(req.BuyerID, id, req.Amount, req.Payment); err != nil {
		writeServiceError(w, err)
		return
	}

	property, err := h.Service.GetProperty(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "confirmada",
		"property": property,
	})
}

// GetFractionBalance consulta no ledger o saldo de frações de um
// investidor para um imóvel.
// GET /properties/{id}/balance/{userID}
func (h *FractionHandler) GetFractionBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDParam(r)
	if !ok {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "ID do usuário é obrigatório", http.StatusBadRequest)
		return
	}

	balance, err := h.Service.FractionBalance(id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"property_id": id,
		"user_id":     userID,
		"balance":     balance,
	})
}
