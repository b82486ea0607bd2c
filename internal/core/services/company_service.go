package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type companyService struct {
	companies ports.Store[domain.Company]
	campaigns ports.CampaignService
	votes     ports.VoteService
	logger    *slog.Logger
}

func NewCompanyService(companies ports.Store[domain.Company], campaigns ports.CampaignService, votes ports.VoteService, logger *slog.Logger) ports.CompanyService {
	return &companyService{
		companies: companies,
		campaigns: campaigns,
		votes:     votes,
		logger:    logger,
	}
}

func (s *companyService) Create(ctx context.Context, input ports.CreateCompanyInput) (*domain.Company, error) {
	company := domain.Company{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashPassword(input.Password),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.companies.Create(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &created, nil
}

func (s *companyService) Update(ctx context.Context, input ports.UpdateCompanyInput) (*domain.Company, error) {
	existing, err := s.Retrieve(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	passwordHash := existing.PasswordHash
	if input.Password != "" {
		passwordHash = hashPassword(input.Password)
	}

	company := domain.Company{
		ID:           existing.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Active:       input.Active,
		CreatedAt:    existing.CreatedAt,
	}

	updated, err := s.companies.Update(ctx, company.ID, company)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return &updated, nil
}

func (s *companyService) Retrieve(ctx context.Context, id primitive.ObjectID) (*domain.Company, error) {
	company, err := retryLookup(ctx, func(ctx context.Context) (domain.Company, error) {
		return s.companies.FindOne(ctx, ports.Filter{"_id": id})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to retrieve company: %w", err)
	}
	return &company, nil
}

func (s *companyService) RetrieveByCredentials(ctx context.Context, email, password string) (*domain.Company, error) {
	company, err := retryLookup(ctx, func(ctx context.Context) (domain.Company, error) {
		return s.companies.FindOne(ctx, ports.Filter{
			"email":         email,
			"password_hash": hashPassword(password),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve company by credentials: %w", err)
	}
	return &company, nil
}

// Delete removes everything the company owns before the company record:
// votes, then campaigns, then the company. Bulk deletes by the denormalized
// company id avoid a round trip per campaign; the child-before-parent order
// keeps a partial cascade recoverable by retrying the whole thing.
func (s *companyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.Retrieve(ctx, id); err != nil {
		return err
	}

	return runCascade(ctx, s.logger, "company", id, []cascadeStep{
		{name: "delete votes", run: func(ctx context.Context) error {
			return s.votes.DeleteVotesByCompany(ctx, id)
		}},
		{name: "delete campaigns", run: func(ctx context.Context) error {
			return s.campaigns.DeleteAllByCompany(ctx, id)
		}},
		{name: "delete company", run: func(ctx context.Context) error {
			err := s.companies.Delete(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				// A concurrent retry already finished the cascade.
				return nil
			}
			return err
		}},
	})
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
