package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type voteService struct {
	campaigns ports.Store[domain.Campaign]
	votes     ports.Store[domain.Vote]
	logger    *slog.Logger
}

func NewVoteService(campaigns ports.Store[domain.Campaign], votes ports.Store[domain.Vote], logger *slog.Logger) ports.VoteService {
	return &voteService{
		campaigns: campaigns,
		votes:     votes,
		logger:    logger,
	}
}

func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) (*domain.Vote, error) {
	campaign, err := retryLookup(ctx, func(ctx context.Context) (domain.Campaign, error) {
		return s.campaigns.FindOne(ctx, ports.Filter{
			"_id":        input.CampaignID,
			"company_id": input.CompanyID,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to resolve campaign: %w", err)
	}
	if !campaign.Active {
		return nil, domain.ErrCampaignInactive
	}
	if !campaign.HasOption(input.CampaignOptionID) {
		return nil, domain.ErrOptionNotFound
	}

	voter := strings.TrimSpace(input.VoterIdentity)
	if voter == "" {
		// Anonymous voter; each anonymous ballot counts once.
		voter = uuid.NewString()
	}

	_, err = s.votes.FindOne(ctx, ports.Filter{
		"campaign_id":    input.CampaignID,
		"voter_identity": voter,
	})
	if err == nil {
		return nil, domain.ErrDuplicateVote
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}

	vote := domain.Vote{
		ID:               primitive.NewObjectID(),
		VoterIdentity:    voter,
		CampaignID:       input.CampaignID,
		CompanyID:        input.CompanyID,
		CampaignOptionID: input.CampaignOptionID,
		CreatedAt:        time.Now().UTC(),
	}

	// The existence check above and this insert are not atomic: two
	// concurrent casts for the same voter can both pass the check. The
	// unique index on (campaign_id, voter_identity) decides the race; the
	// losing insert comes back as a duplicate key.
	created, err := s.votes.Create(ctx, vote)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrDuplicateVote
		}
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}
	return &created, nil
}

func (s *voteService) DeleteVotesByCampaign(ctx context.Context, campaignID primitive.ObjectID) error {
	deleted, err := s.votes.DeleteMany(ctx, ports.Filter{"campaign_id": campaignID})
	if err != nil {
		return fmt.Errorf("failed to delete votes for campaign %s: %w", campaignID.Hex(), err)
	}
	s.logger.Info("deleted campaign votes", "campaign_id", campaignID.Hex(), "count", deleted)
	return nil
}

func (s *voteService) DeleteVotesByCompany(ctx context.Context, companyID primitive.ObjectID) error {
	deleted, err := s.votes.DeleteMany(ctx, ports.Filter{"company_id": companyID})
	if err != nil {
		return fmt.Errorf("failed to delete votes for company %s: %w", companyID.Hex(), err)
	}
	s.logger.Info("deleted company votes", "company_id", companyID.Hex(), "count", deleted)
	return nil
}

func (s *voteService) FindCampaignByCode(ctx context.Context, code string) (*domain.Campaign, error) {
	campaign, err := retryLookup(ctx, func(ctx context.Context) (domain.Campaign, error) {
		return s.campaigns.FindOne(ctx, ports.Filter{"code": code, "active": true})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to find campaign by code: %w", err)
	}
	return &campaign, nil
}
