package domain

import "time"

// Kind says whether a report is about a lost pet or a found one.
type Kind string

const (
	KindLost  Kind = "Lost"
	KindFound Kind = "Found"
)

func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Report statuses; derived by moderation, not by the reporter.
const (
	StatusOpen     = "Open"
	StatusResolved = "Resolved"
)

type Report struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Kind         Kind      `bson:"kind" json:"kind"`
	Title        string    `bson:"title" json:"title"`
	Category     string    `bson:"category" json:"category"`
	Description  string    `bson:"description" json:"description"`
	Location     string    `bson:"location" json:"location"`
	Date         time.Time `bson:"date" json:"date"`
	ReporterID   string    `bson:"reporter_id" json:"reporter_id"`
	ReporterName string    `bson:"reporter_name,omitempty" json:"reporter_name,omitempty"`
	ImageURL     string    `bson:"image_url" json:"image_url"`
	ContactInfo  string    `bson:"contact_info" json:"contact_info"`
	Status       string    `bson:"status" json:"status"`
	Visible      bool      `bson:"visible" json:"visible"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
