package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/adapters/repository/memory"
	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

type companyFixture struct {
	companies   *memory.Store[domain.Company]
	campaigns   *memory.Store[domain.Campaign]
	votes       *memory.Store[domain.Vote]
	companySvc  ports.CompanyService
	campaignSvc ports.CampaignService
	voteSvc     ports.VoteService
}

func newCompanyFixture() *companyFixture {
	f := &companyFixture{
		companies: memory.NewStore[domain.Company](),
		campaigns: newCampaignStore(),
		votes:     newVoteStore(),
	}
	f.voteSvc = NewVoteService(f.campaigns, f.votes, testLogger())
	f.campaignSvc = NewCampaignService(f.campaigns, f.voteSvc, testLogger())
	f.companySvc = NewCompanyService(f.companies, f.campaignSvc, f.voteSvc, testLogger())
	return f
}

func TestCreateCompanyHashesPassword(t *testing.T) {
	f := newCompanyFixture()

	company, err := f.companySvc.Create(context.Background(), ports.CreateCompanyInput{
		Name:     "Acme",
		Email:    "admin@acme.test",
		Password: "hunter2",
	})
	require.NoError(t, err)

	assert.False(t, company.ID.IsZero())
	assert.True(t, company.Active)
	assert.NotEmpty(t, company.PasswordHash)
	assert.NotEqual(t, "hunter2", company.PasswordHash)
}

func TestRetrieveByCredentials(t *testing.T) {
	f := newCompanyFixture()

	created, err := f.companySvc.Create(context.Background(), ports.CreateCompanyInput{
		Name:     "Acme",
		Email:    "admin@acme.test",
		Password: "hunter2",
	})
	require.NoError(t, err)

	company, err := f.companySvc.RetrieveByCredentials(context.Background(), "admin@acme.test", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, company.ID)

	_, err = f.companySvc.RetrieveByCredentials(context.Background(), "admin@acme.test", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateCompanyKeepsPasswordWhenBlank(t *testing.T) {
	f := newCompanyFixture()

	created, err := f.companySvc.Create(context.Background(), ports.CreateCompanyInput{
		Name:     "Acme",
		Email:    "admin@acme.test",
		Password: "hunter2",
	})
	require.NoError(t, err)

	updated, err := f.companySvc.Update(context.Background(), ports.UpdateCompanyInput{
		ID:     created.ID,
		Name:   "Acme Corp",
		Email:  "admin@acme.test",
		Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, created.PasswordHash, updated.PasswordHash)

	_, err = f.companySvc.RetrieveByCredentials(context.Background(), "admin@acme.test", "hunter2")
	assert.NoError(t, err)
}

func TestDeleteCompanyCascades(t *testing.T) {
	f := newCompanyFixture()

	company, err := f.companySvc.Create(context.Background(), ports.CreateCompanyInput{
		Name:     "Acme",
		Email:    "admin@acme.test",
		Password: "hunter2",
	})
	require.NoError(t, err)

	// Two campaigns, votes under each.
	for i, code := range []string{"C1", "C2"} {
		campaign, err := f.campaignSvc.Create(context.Background(), ports.CreateCampaignInput{
			CompanyID: company.ID,
			Code:      code,
			Title:     code,
			Options:   []string{"A", "B"},
			Active:    true,
		})
		require.NoError(t, err)

		for v := 0; v < 2+i; v++ {
			_, err := f.voteSvc.CastVote(context.Background(), ports.CastVoteInput{
				VoterIdentity:    fmt.Sprintf("voter-%d", v),
				CampaignID:       campaign.ID,
				CompanyID:        company.ID,
				CampaignOptionID: campaign.Options[0].ID,
			})
			require.NoError(t, err)
		}
	}
	require.Equal(t, 2, countAll(t, f.campaigns, ports.Filter{"company_id": company.ID}))
	require.Equal(t, 5, countAll(t, f.votes, ports.Filter{"company_id": company.ID}))

	require.NoError(t, f.companySvc.Delete(context.Background(), company.ID))

	assert.Equal(t, 0, countAll(t, f.campaigns, ports.Filter{"company_id": company.ID}))
	assert.Equal(t, 0, countAll(t, f.votes, ports.Filter{"company_id": company.ID}))
	_, err = f.companySvc.Retrieve(context.Background(), company.ID)
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestDeleteCompanyNotFound(t *testing.T) {
	f := newCompanyFixture()
	err := f.companySvc.Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

// A store failure mid-cascade surfaces the error and leaves the remaining
// steps unapplied; the ordering keeps the state recoverable by retrying.
func TestDeleteCompanyCascadeFailureIsRetryable(t *testing.T) {
	f := newCompanyFixture()

	company, err := f.companySvc.Create(context.Background(), ports.CreateCompanyInput{
		Name:     "Acme",
		Email:    "admin@acme.test",
		Password: "hunter2",
	})
	require.NoError(t, err)

	campaign, err := f.campaignSvc.Create(context.Background(), ports.CreateCampaignInput{
		CompanyID: company.ID,
		Code:      "C1",
		Title:     "C1",
		Options:   []string{"A", "B"},
		Active:    true,
	})
	require.NoError(t, err)
	_, err = f.voteSvc.CastVote(context.Background(), ports.CastVoteInput{
		VoterIdentity:    "alice",
		CampaignID:       campaign.ID,
		CompanyID:        company.ID,
		CampaignOptionID: campaign.Options[0].ID,
	})
	require.NoError(t, err)

	f.votes.FailNext(1, fmt.Errorf("%w: connection reset", domain.ErrStoreUnavailable))

	err = f.companySvc.Delete(context.Background(), company.ID)
	require.Error(t, err)

	// Nothing past the failed step ran: campaign and company still exist.
	assert.Equal(t, 1, countAll(t, f.campaigns, ports.Filter{"company_id": company.ID}))
	_, err = f.companySvc.Retrieve(context.Background(), company.ID)
	require.NoError(t, err)

	// Retry completes the cascade.
	require.NoError(t, f.companySvc.Delete(context.Background(), company.ID))
	assert.Equal(t, 0, countAll(t, f.campaigns, ports.Filter{"company_id": company.ID}))
	assert.Equal(t, 0, countAll(t, f.votes, ports.Filter{"company_id": company.ID}))
}

// Full lifecycle: company, campaign with a code, one voter, duplicate
// rejection, campaign cascade, then a trivially empty company delete.
func TestCompanyCampaignVoteLifecycle(t *testing.T) {
	f := newCompanyFixture()
	ctx := context.Background()

	company, err := f.companySvc.Create(ctx, ports.CreateCompanyInput{
		Name:     "Acme",
		Email:    "admin@acme.test",
		Password: "hunter2",
	})
	require.NoError(t, err)

	campaign, err := f.campaignSvc.Create(ctx, ports.CreateCampaignInput{
		CompanyID: company.ID,
		Code:      "ACME1",
		Title:     "Q1-Poll",
		Options:   []string{"A", "B"},
		Active:    true,
	})
	require.NoError(t, err)

	found, err := f.voteSvc.FindCampaignByCode(ctx, "ACME1")
	require.NoError(t, err)
	require.Equal(t, campaign.ID, found.ID)

	castInput := ports.CastVoteInput{
		VoterIdentity:    "alice",
		CampaignID:       campaign.ID,
		CompanyID:        company.ID,
		CampaignOptionID: campaign.Options[0].ID,
	}
	_, err = f.voteSvc.CastVote(ctx, castInput)
	require.NoError(t, err)

	_, err = f.voteSvc.CastVote(ctx, castInput)
	require.ErrorIs(t, err, domain.ErrDuplicateVote)

	require.NoError(t, f.campaignSvc.Delete(ctx, campaign.ID))
	assert.Equal(t, 0, countAll(t, f.votes, ports.Filter{"campaign_id": campaign.ID}))

	_, err = f.voteSvc.FindCampaignByCode(ctx, "ACME1")
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)

	require.NoError(t, f.companySvc.Delete(ctx, company.ID))
}
