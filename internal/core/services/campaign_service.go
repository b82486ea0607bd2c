package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type campaignService struct {
	campaigns ports.Store[domain.Campaign]
	votes     ports.VoteService
	logger    *slog.Logger
}

func NewCampaignService(campaigns ports.Store[domain.Campaign], votes ports.VoteService, logger *slog.Logger) ports.CampaignService {
	return &campaignService{
		campaigns: campaigns,
		votes:     votes,
		logger:    logger,
	}
}

func (s *campaignService) Create(ctx context.Context, input ports.CreateCampaignInput) (*domain.Campaign, error) {
	if input.Active {
		if err := s.ensureCodeAvailable(ctx, input.Code, primitive.NilObjectID); err != nil {
			return nil, err
		}
	}

	campaign := domain.Campaign{
		ID:          primitive.NewObjectID(),
		CompanyID:   input.CompanyID,
		Code:        input.Code,
		Title:       input.Title,
		Description: input.Description,
		Active:      input.Active,
		CreatedAt:   time.Now().UTC(),
	}
	for _, label := range input.Options {
		if label == "" {
			continue
		}
		campaign.Options = append(campaign.Options, domain.CampaignOption{
			ID:    primitive.NewObjectID(),
			Label: label,
		})
	}

	created, err := s.campaigns.Create(ctx, campaign)
	if err != nil {
		// The availability check above races with concurrent writers; the
		// partial unique index on active campaign codes settles it.
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrCampaignCodeInUse
		}
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return &created, nil
}

func (s *campaignService) Update(ctx context.Context, input ports.UpdateCampaignInput) (*domain.Campaign, error) {
	existing, err := s.Retrieve(ctx, input.CompanyID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Active {
		if err := s.ensureCodeAvailable(ctx, input.Code, input.ID); err != nil {
			return nil, err
		}
	}

	// Options are kept as created; votes reference them by id.
	campaign := domain.Campaign{
		ID:          existing.ID,
		CompanyID:   existing.CompanyID,
		Code:        input.Code,
		Title:       input.Title,
		Description: input.Description,
		Options:     existing.Options,
		Active:      input.Active,
		CreatedAt:   existing.CreatedAt,
	}

	updated, err := s.campaigns.Update(ctx, campaign.ID, campaign)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrCampaignCodeInUse
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return &updated, nil
}

func (s *campaignService) Retrieve(ctx context.Context, companyID, campaignID primitive.ObjectID) (*domain.Campaign, error) {
	campaign, err := retryLookup(ctx, func(ctx context.Context) (domain.Campaign, error) {
		return s.campaigns.FindOne(ctx, ports.Filter{
			"_id":        campaignID,
			"company_id": companyID,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to retrieve campaign: %w", err)
	}
	return &campaign, nil
}

func (s *campaignService) RetrieveAllByCompany(ctx context.Context, companyID primitive.ObjectID) ([]*domain.Campaign, error) {
	var campaigns []*domain.Campaign
	for campaign, err := range s.campaigns.FindMany(ctx, ports.Filter{"company_id": companyID}) {
		if err != nil {
			return nil, fmt.Errorf("failed to list campaigns: %w", err)
		}
		campaigns = append(campaigns, &campaign)
	}
	return campaigns, nil
}

// Delete removes the campaign's votes, then the campaign itself. Votes go
// first: a crash in between leaves an orphaned campaign that a retry can
// finish off, never votes pointing at a campaign that no longer exists.
func (s *campaignService) Delete(ctx context.Context, campaignID primitive.ObjectID) error {
	err := runCascade(ctx, s.logger, "campaign", campaignID, []cascadeStep{
		{name: "delete votes", run: func(ctx context.Context) error {
			return s.votes.DeleteVotesByCampaign(ctx, campaignID)
		}},
		{name: "delete campaign", run: func(ctx context.Context) error {
			return s.campaigns.Delete(ctx, campaignID)
		}},
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrCampaignNotFound
	}
	return err
}

func (s *campaignService) DeleteAllByCompany(ctx context.Context, companyID primitive.ObjectID) error {
	deleted, err := s.campaigns.DeleteMany(ctx, ports.Filter{"company_id": companyID})
	if err != nil {
		return fmt.Errorf("failed to delete campaigns for company %s: %w", companyID.Hex(), err)
	}
	s.logger.Info("deleted company campaigns", "company_id", companyID.Hex(), "count", deleted)
	return nil
}

// ensureCodeAvailable rejects writes that would leave two active campaigns
// sharing a code, so code lookup stays unambiguous. except skips the
// campaign being updated.
func (s *campaignService) ensureCodeAvailable(ctx context.Context, code string, except primitive.ObjectID) error {
	holder, err := s.campaigns.FindOne(ctx, ports.Filter{"code": code, "active": true})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check campaign code: %w", err)
	}
	if holder.ID != except {
		return domain.ErrCampaignCodeInUse
	}
	return nil
}
