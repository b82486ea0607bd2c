package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
)

type CreateCampaignInput struct {
	CompanyID   primitive.ObjectID
	Code        string
	Title       string
	Description string
	Options     []string
	Active      bool
}

type UpdateCampaignInput struct {
	ID          primitive.ObjectID
	CompanyID   primitive.ObjectID
	Code        string
	Title       string
	Description string
	Active      bool
}

type CampaignService interface {
	Create(ctx context.Context, input CreateCampaignInput) (*domain.Campaign, error)
	Update(ctx context.Context, input UpdateCampaignInput) (*domain.Campaign, error)
	Retrieve(ctx context.Context, companyID, campaignID primitive.ObjectID) (*domain.Campaign, error)
	RetrieveAllByCompany(ctx context.Context, companyID primitive.ObjectID) ([]*domain.Campaign, error)
	// Delete removes the campaign and every vote cast on it.
	Delete(ctx context.Context, campaignID primitive.ObjectID) error
	// DeleteAllByCompany bulk-removes a company's campaigns without touching
	// votes; company-wide cascades delete votes first.
	DeleteAllByCompany(ctx context.Context, companyID primitive.ObjectID) error
}
