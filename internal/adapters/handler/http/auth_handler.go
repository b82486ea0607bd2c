package http

import (
	"encoding/json"
	"net/http"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var vErr domain.ValidationError
	if req.Email == "" {
		vErr.Add("email", "email is mandatory")
	}
	if req.Password == "" {
		vErr.Add("password", "password is mandatory")
	}
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}
