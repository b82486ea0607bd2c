package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/remotevoters/api/internal/adapters/repository/mongodb"
	"github.com/remotevoters/api/internal/core/domain"
)

func postJSON(t *testing.T, app *TestApp, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := app.Client.Post(app.Server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createCompany(t *testing.T, app *TestApp, name, email string) domain.Company {
	t.Helper()
	resp := postJSON(t, app, "/company", map[string]any{
		"name":     name,
		"email":    email,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var company domain.Company
	decodeBody(t, resp, &company)
	return company
}

func createCampaign(t *testing.T, app *TestApp, company domain.Company, code string) domain.Campaign {
	t.Helper()
	resp := postJSON(t, app, "/campaign", map[string]any{
		"company_id": company.ID.Hex(),
		"code":       code,
		"title":      "Poll " + code,
		"options":    []string{"A", "B"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var campaign domain.Campaign
	decodeBody(t, resp, &campaign)
	return campaign
}

func castVote(t *testing.T, app *TestApp, company domain.Company, campaign domain.Campaign, voter string) *http.Response {
	t.Helper()
	return postJSON(t, app, "/vote", map[string]any{
		"voter_identity":     voter,
		"campaign_id":        campaign.ID.Hex(),
		"company_id":         company.ID.Hex(),
		"campaign_option_id": campaign.Options[0].ID.Hex(),
	})
}

func TestCompanyCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	company := createCompany(t, app, "Acme", "admin@acme.test")
	require.False(t, company.ID.IsZero())

	// Retrieve
	resp, err := app.Client.Get(app.Server.URL + "/company/getCompany/" + company.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched domain.Company
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "Acme", fetched.Name)

	// Update
	body, _ := json.Marshal(map[string]any{
		"id":     company.ID.Hex(),
		"name":   "Acme Corp",
		"email":  "admin@acme.test",
		"active": true,
	})
	req, err := http.NewRequest(http.MethodPut, app.Server.URL+"/company", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated domain.Company
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Acme Corp", updated.Name)

	// Login still works after an update that did not carry a password.
	resp = postJSON(t, app, "/auth/login", map[string]any{
		"email":    "admin@acme.test",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, resp, &login)
	assert.NotEmpty(t, login.AccessToken)
}

func TestDeleteCompanyCascade(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	company := createCompany(t, app, "Acme", "admin@acme.test")
	first := createCampaign(t, app, company, "C1")
	second := createCampaign(t, app, company, "C2")

	for i, campaign := range []domain.Campaign{first, second} {
		for v := 0; v < 2+i; v++ {
			resp := castVote(t, app, company, campaign, fmt.Sprintf("voter-%d", v))
			resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}
	}

	companyFilter := bson.M{"company_id": company.ID}
	require.EqualValues(t, 2, app.countDocuments(t, mongodb.CampaignsCollection, companyFilter))
	require.EqualValues(t, 5, app.countDocuments(t, mongodb.VotesCollection, companyFilter))

	req, err := http.NewRequest(http.MethodDelete, app.Server.URL+"/company/"+company.ID.Hex(), nil)
	require.NoError(t, err)
	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 0, app.countDocuments(t, mongodb.CampaignsCollection, companyFilter))
	assert.EqualValues(t, 0, app.countDocuments(t, mongodb.VotesCollection, companyFilter))
	assert.EqualValues(t, 0, app.countDocuments(t, mongodb.CompaniesCollection, bson.M{"_id": company.ID}))

	// Deleting again reports the company as gone.
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
