package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
)

type CreateCompanyInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateCompanyInput struct {
	ID       primitive.ObjectID
	Name     string
	Email    string
	Password string
	Active   bool
}

type CompanyService interface {
	Create(ctx context.Context, input CreateCompanyInput) (*domain.Company, error)
	Update(ctx context.Context, input UpdateCompanyInput) (*domain.Company, error)
	Retrieve(ctx context.Context, id primitive.ObjectID) (*domain.Company, error)
	RetrieveByCredentials(ctx context.Context, email, password string) (*domain.Company, error)
	// Delete removes the company together with all of its campaigns and all
	// votes under them.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
