package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
)

type CastVoteInput struct {
	VoterIdentity    string
	CampaignID       primitive.ObjectID
	CompanyID        primitive.ObjectID
	CampaignOptionID primitive.ObjectID
}

type VoteService interface {
	// CastVote records one vote for one voter on one active campaign.
	CastVote(ctx context.Context, input CastVoteInput) (*domain.Vote, error)
	// DeleteVotesByCampaign removes every vote for the campaign. Idempotent.
	DeleteVotesByCampaign(ctx context.Context, campaignID primitive.ObjectID) error
	// DeleteVotesByCompany removes every vote denormalized under the
	// company. Idempotent.
	DeleteVotesByCompany(ctx context.Context, companyID primitive.ObjectID) error
	// FindCampaignByCode resolves the unique active campaign with the code.
	FindCampaignByCode(ctx context.Context, code string) (*domain.Campaign, error)
}
