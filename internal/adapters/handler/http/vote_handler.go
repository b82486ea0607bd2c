package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

type castVoteRequest struct {
	VoterIdentity    string `json:"voter_identity"`
	CampaignID       string `json:"campaign_id"`
	CompanyID        string `json:"company_id"`
	CampaignOptionID string `json:"campaign_option_id"`
}

func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var vErr domain.ValidationError
	campaignID := parseObjectID(&vErr, "campaign_id", req.CampaignID)
	companyID := parseObjectID(&vErr, "company_id", req.CompanyID)
	optionID := parseObjectID(&vErr, "campaign_option_id", req.CampaignOptionID)
	if err := vErr.Err(); err != nil {
		respondServiceError(w, err)
		return
	}

	vote, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		VoterIdentity:    req.VoterIdentity,
		CampaignID:       campaignID,
		CompanyID:        companyID,
		CampaignOptionID: optionID,
	})
	if err != nil {
		// The vote contract reports integrity failures as 400s: the voter
		// supplied a campaign that does not exist, is closed, or that they
		// already voted on.
		if errors.Is(err, domain.ErrCampaignNotFound) ||
			errors.Is(err, domain.ErrCampaignInactive) ||
			errors.Is(err, domain.ErrOptionNotFound) ||
			errors.Is(err, domain.ErrDuplicateVote) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vote)
}
