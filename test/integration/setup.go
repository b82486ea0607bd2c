package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	handler "github.com/remotevoters/api/internal/adapters/handler/http"
	"github.com/remotevoters/api/internal/adapters/repository/mongodb"
	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/services"
)

type TestApp struct {
	DB         *mongo.Database
	Server     *httptest.Server
	Client     *http.Client
	container  *tcmongodb.MongoDBContainer
	disconnect func(context.Context) error
}

func setupMongoContainer(ctx context.Context) (*tcmongodb.MongoDBContainer, string, error) {
	container, err := tcmongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, "", fmt.Errorf("failed to start mongodb container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, "", err
	}
	return container, uri, nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	container, uri, err := setupMongoContainer(ctx)
	require.NoError(t, err)

	db, disconnect, err := mongodb.Connect(ctx, uri, "remotevoters_test")
	require.NoError(t, err)
	require.NoError(t, mongodb.EnsureIndexes(ctx, db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	companyStore := mongodb.NewStore[domain.Company](db, mongodb.CompaniesCollection, 0)
	campaignStore := mongodb.NewStore[domain.Campaign](db, mongodb.CampaignsCollection, 0)
	voteStore := mongodb.NewStore[domain.Vote](db, mongodb.VotesCollection, 0)

	voteSvc := services.NewVoteService(campaignStore, voteStore, logger)
	campaignSvc := services.NewCampaignService(campaignStore, voteSvc, logger)
	companySvc := services.NewCompanyService(companyStore, campaignSvc, voteSvc, logger)
	authSvc := services.NewAuthService(companySvc, "test-secret")

	router := handler.NewHandler(
		handler.NewCompanyHandler(companySvc),
		handler.NewCampaignHandler(campaignSvc, voteSvc),
		handler.NewVoteHandler(voteSvc),
		handler.NewAuthHandler(authSvc),
	)
	server := httptest.NewServer(router)

	return &TestApp{
		DB:         db,
		Server:     server,
		Client:     server.Client(),
		container:  container,
		disconnect: disconnect,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	if err := app.disconnect(context.Background()); err != nil {
		t.Logf("failed to disconnect client: %v", err)
	}
	if err := app.container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) countDocuments(t *testing.T, collection string, filter any) int64 {
	t.Helper()
	count, err := app.DB.Collection(collection).CountDocuments(context.Background(), filter)
	require.NoError(t, err)
	return count
}
