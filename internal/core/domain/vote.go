package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote is immutable once created; votes are only ever removed by a
// cascade from their campaign or company. CompanyID is denormalized so
// company-wide cascades can delete votes without enumerating campaigns.
type Vote struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VoterIdentity    string             `bson:"voter_identity" json:"voter_identity"`
	CampaignID       primitive.ObjectID `bson:"campaign_id" json:"campaign_id"`
	CompanyID        primitive.ObjectID `bson:"company_id" json:"company_id"`
	CampaignOptionID primitive.ObjectID `bson:"campaign_option_id" json:"campaign_option_id"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}
