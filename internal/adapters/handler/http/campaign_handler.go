package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type CampaignHandler struct {
	campaigns ports.CampaignService
	votes     ports.VoteService
}

func NewCampaignHandler(campaigns ports.CampaignService, votes ports.VoteService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, votes: votes}
}

type createCampaignRequest struct {
	CompanyID   string   `json:"company_id"`
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Active      *bool    `json:"active,omitempty"`
}

type updateCampaignRequest struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Active      *bool  `json:"active,omitempty"`
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var vErr domain.ValidationError
	companyID := parseObjectID(&vErr, "company_id", req.CompanyID)
	if req.Code == "" {
		vErr.Add("code", "code is mandatory")
	}
	if req.Title == "" {
		vErr.Add("title", "title is mandatory")
	}
	options := make([]string, 0, len(req.Options))
	for _, label := range req.Options {
		if label != "" {
			options = append(options, label)
		}
	}
	if len(options) < 2 {
		vErr.Add("options", "at least two options are required")
	}
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	campaign, err := h.campaigns.Create(r.Context(), ports.CreateCampaignInput{
		CompanyID:   companyID,
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Options:     options,
		Active:      active,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var vErr domain.ValidationError
	id := parseObjectID(&vErr, "id", req.ID)
	companyID := parseObjectID(&vErr, "company_id", req.CompanyID)
	if req.Code == "" {
		vErr.Add("code", "code is mandatory")
	}
	if req.Title == "" {
		vErr.Add("title", "title is mandatory")
	}
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	campaign, err := h.campaigns.Update(r.Context(), ports.UpdateCampaignInput{
		ID:          id,
		CompanyID:   companyID,
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Active:      active,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var vErr domain.ValidationError
	id := parseObjectID(&vErr, "id", chi.URLParam(r, "id"))
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.campaigns.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *CampaignHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var vErr domain.ValidationError
	companyID := parseObjectID(&vErr, "companyId", chi.URLParam(r, "companyId"))
	campaignID := parseObjectID(&vErr, "campaignId", chi.URLParam(r, "campaignId"))
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	campaign, err := h.campaigns.Retrieve(r.Context(), companyID, campaignID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) RetrieveAllByCompany(w http.ResponseWriter, r *http.Request) {
	var vErr domain.ValidationError
	companyID := parseObjectID(&vErr, "companyId", chi.URLParam(r, "companyId"))
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	campaigns, err := h.campaigns.RetrieveAllByCompany(r.Context(), companyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []*domain.Campaign{}
	}
	respondJSON(w, http.StatusOK, campaigns)
}

// RetrieveByCode is how voters reach a campaign: by its human-entered code,
// matched only against active campaigns.
func (h *CampaignHandler) RetrieveByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		var vErr domain.ValidationError
		vErr.Add("code", "code is mandatory")
		respondServiceError(w, vErr.Err())
		return
	}

	campaign, err := h.votes.FindCampaignByCode(r.Context(), code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}
