package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

type companyRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Active   *bool  `json:"active,omitempty"`
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var vErr domain.ValidationError
	if req.Name == "" {
		vErr.Add("name", "name is mandatory")
	}
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

	company, err := h.service.Create(r.Context(), ports.CreateCompanyInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var vErr domain.ValidationError
	id := parseObjectID(&vErr, "id", req.ID)
	if req.Name == "" {
		vErr.Add("name", "name is mandatory")
	}
	if req.Email == "" {
		vErr.Add("email", "email is mandatory")
	}
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	company, err := h.service.Update(r.Context(), ports.UpdateCompanyInput{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Active:   active,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var vErr domain.ValidationError
	id := parseObjectID(&vErr, "id", chi.URLParam(r, "id"))
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *CompanyHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var vErr domain.ValidationError
	id := parseObjectID(&vErr, "id", chi.URLParam(r, "id"))
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	company, err := h.service.Retrieve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// parseObjectID converts a transport hex id, recording a field error on
// malformed input.
func parseObjectID(vErr *domain.ValidationError, field, value string) primitive.ObjectID {
	if value == "" {
		vErr.Add(field, field+" is mandatory")
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		vErr.Add(field, field+" must be a valid hex id")
		return primitive.NilObjectID
	}
	return id
}
