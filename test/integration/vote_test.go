package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/remotevoters/api/internal/adapters/repository/mongodb"
)

// TestVoteFlow covers the basic lifecycle: create company -> create campaign
// -> vote -> duplicate rejected -> campaign delete removes the vote.
func TestVoteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	company := createCompany(t, app, "Acme", "admin@acme.test")
	campaign := createCampaign(t, app, company, "ACME1")

	resp := castVote(t, app, company, campaign, "alice")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = castVote(t, app, company, campaign, "alice")
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	campaignFilter := bson.M{"campaign_id": campaign.ID}
	require.EqualValues(t, 1, app.countDocuments(t, mongodb.VotesCollection, campaignFilter))

	req, err := http.NewRequest(http.MethodDelete, app.Server.URL+"/campaign/"+campaign.ID.Hex(), nil)
	require.NoError(t, err)
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 0, app.countDocuments(t, mongodb.VotesCollection, campaignFilter))
	assert.EqualValues(t, 0, app.countDocuments(t, mongodb.CampaignsCollection, bson.M{"_id": campaign.ID}))
}

// TestConcurrentDuplicateVotes drives concurrent casts for one voter through
// the full HTTP stack against real MongoDB: the unique index must let
// exactly one through.
func TestConcurrentDuplicateVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	company := createCompany(t, app, "Acme", "admin@acme.test")
	campaign := createCampaign(t, app, company, "RACE1")

	const attempts = 8
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := castVote(t, app, company, campaign, "bob")
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	successes := 0
	for status := range statuses {
		if status == http.StatusOK {
			successes++
		} else {
			assert.Equal(t, http.StatusBadRequest, status)
		}
	}
	assert.Equal(t, 1, successes)
	assert.EqualValues(t, 1, app.countDocuments(t, mongodb.VotesCollection, bson.M{
		"campaign_id":    campaign.ID,
		"voter_identity": "bob",
	}))
}
