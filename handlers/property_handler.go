package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ferreirogomes/imofrac/services"

	"github.com/go-chi/chi/v5"
)

// PropertyHandler lida com requisições HTTP do registro de imóveis.
type PropertyHandler struct {
	Service *services.FractionationService
}

// NewPropertyHandler cria uma nova instância do handler de imóveis.
func NewPropertyHandler(s *services.FractionationService) *PropertyHandler {
	return &PropertyHandler{Service: s}
}

// propertyIDParam extrai e valida o ID de imóvel da URL.
func propertyIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CreateProperty registra um novo imóvel. O chamador vem do header
// X-User-ID e precisa ser o dono da plataforma.
// POST /properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name             string `json:"name"`
		Location         string `json:"location"`
		TotalFractions   int64  `json:"total_fractions"`
		PricePerFraction int64  `json:"price_per_fraction"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	property, err := h.Service.AddProperty(
		r.Header.Get("X-User-ID"),
		requestBody.Name, requestBody.Location,
		requestBody.TotalFractions, requestBody.PricePerFraction,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(property)
}

// GetPropertyByID obtém um imóvel pelo ID.
// GET /properties/{id}
func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDParam(r)
	if !ok {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	property, err := h.Service.GetProperty(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

// GetPropertyMetadata devolve o locator do documento de metadados
// off-chain do imóvel.
// GET /properties/{id}/metadata
func (h *PropertyHandler) GetPropertyMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDParam(r)
	if !ok {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	uri, err := h.Service.ResolveMetadataLocator(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"metadata_uri": uri})
}

// UpdatePropertyStatus ativa ou desativa um imóvel. O chamador vem do
// header X-User-ID e precisa ser o dono da plataforma.
// PATCH /properties/{id}/status
func (h *PropertyHandler) UpdatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIDParam(r)
	if !ok {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	property, err := h.Service.SetPropertyStatus(r.Header.Get("X-User-ID"), id, requestBody.IsActive)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}
