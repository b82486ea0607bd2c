package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Campaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CompanyID   primitive.ObjectID `bson:"company_id" json:"company_id"`
	Code        string             `bson:"code" json:"code"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Options     []CampaignOption   `bson:"options" json:"options"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// CampaignOption is embedded in its campaign; it never exists on its own.
type CampaignOption struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Label string             `bson:"label" json:"label"`
}

// HasOption reports whether id names one of the campaign's options.
func (c *Campaign) HasOption(id primitive.ObjectID) bool {
	for _, opt := range c.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}
