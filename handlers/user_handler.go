package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/imofrac/services"

	"github.com/go-chi/chi/v5"
)

// UserHandler lida com requisições HTTP relacionadas a investidores.
type UserHandler struct {
	Service *services.FractionationService
}

// NewUserHandler cria uma nova instância do handler de usuários.
func NewUserHandler(s *services.FractionationService) *UserHandler {
	return &UserHandler{Service: s}
}

// CreateUser cadastra um novo investidor com sua carteira Solana.
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		SolanaPubKey string `json:"solana_pub_key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Service.RegisterUser(requestBody.Name, requestBody.Email, requestBody.SolanaPubKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// GetUserByID obtém um investidor pelo ID.
// GET /users/{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		http.Error(w, "ID do usuário é obrigatório", http.StatusBadRequest)
		return
	}

	user, err := h.Service.GetUser(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
