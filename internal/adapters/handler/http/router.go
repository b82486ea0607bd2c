package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewHandler(company *CompanyHandler, campaign *CampaignHandler, vote *VoteHandler, auth *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/company", func(r chi.Router) {
		r.Post("/", company.Create)
		r.Put("/", company.Update)
		r.Delete("/{id}", company.Delete)
		r.Get("/getCompany/{id}", company.Retrieve)
	})

	r.Route("/campaign", func(r chi.Router) {
		r.Post("/", campaign.Create)
		r.Put("/", campaign.Update)
		r.Delete("/{id}", campaign.Delete)
		r.Get("/getAll/{companyId}", campaign.RetrieveAllByCompany)
		r.Get("/getCampaign/{companyId}/{campaignId}", campaign.Retrieve)
		r.Get("/getByCode/{code}", campaign.RetrieveByCode)
	})

	r.Post("/vote", vote.Cast)
	r.Post("/auth/login", auth.Login)

	return r
}
