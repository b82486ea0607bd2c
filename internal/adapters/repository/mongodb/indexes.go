package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the services rely on. The unique vote
// index is what makes concurrent duplicate casts lose deterministically; the
// partial unique code index keeps code lookup unambiguous among active
// campaigns. Creation is idempotent, safe to run on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	voteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "campaign_id", Value: 1},
				{Key: "voter_identity", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_campaign_voter"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}},
			Options: options.Index().SetName("votes_company_id"),
		},
	}
	if _, err := db.Collection(VotesCollection).Indexes().CreateMany(ctx, voteIndexes); err != nil {
		return fmt.Errorf("failed to create vote indexes: %w", err)
	}

	campaignIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "code", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetName("uniq_active_code"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}},
			Options: options.Index().SetName("campaigns_company_id"),
		},
	}
	if _, err := db.Collection(CampaignsCollection).Indexes().CreateMany(ctx, campaignIndexes); err != nil {
		return fmt.Errorf("failed to create campaign indexes: %w", err)
	}

	return nil
}
