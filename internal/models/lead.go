package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead sources.
const (
	SourceWebsite     = "website"
	SourceFacebookAds = "facebook_ads"
	SourceGoogleAds   = "google_ads"
	SourceReferral    = "referral"
	SourceEvents      = "events"
	SourceOther       = "other"
)

// Lead statuses. Any status may move to any other.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusLost      = "lost"
	StatusWon       = "won"
)

var LeadSources = []string{SourceWebsite, SourceFacebookAds, SourceGoogleAds, SourceReferral, SourceEvents, SourceOther}
var LeadStatuses = []string{StatusNew, StatusContacted, StatusQualified, StatusLost, StatusWon}

// Lead is a sales prospect owned by exactly one user. (user_id, email) is unique.
type Lead struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_leads_user_email,priority:1" json:"user" validate:"required"`
	FirstName      string     `gorm:"size:255;not null" json:"first_name" validate:"required"`
	LastName       string     `gorm:"size:255;not null" json:"last_name" validate:"required"`
	Email          string     `gorm:"size:255;not null;uniqueIndex:idx_leads_user_email,priority:2" json:"email" validate:"required"`
	Phone          string     `gorm:"size:50" json:"phone"`
	Company        string     `gorm:"size:255" json:"company"`
	City           string     `gorm:"size:255" json:"city"`
	State          string     `gorm:"size:255" json:"state"`
	Source         string     `gorm:"size:20;not null;default:'website';index" json:"source" validate:"oneof=website facebook_ads google_ads referral events other"`
	Status         string     `gorm:"size:20;not null;default:'new';index" json:"status" validate:"oneof=new contacted qualified lost won"`
	Score          int        `gorm:"not null;default:0" json:"score" validate:"min=0,max=100"`
	LeadValue      float64    `gorm:"not null;default:0" json:"lead_value" validate:"gte=0"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	IsQualified    bool       `gorm:"not null;default:false" json:"is_qualified"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Normalize trims every string field and lower-cases the email so that
// uniqueness and filtering ignore case and surrounding whitespace.
func (l *Lead) Normalize() {
	l.FirstName = strings.TrimSpace(l.FirstName)
	l.LastName = strings.TrimSpace(l.LastName)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Phone = strings.TrimSpace(l.Phone)
	l.Company = strings.TrimSpace(l.Company)
	l.City = strings.TrimSpace(l.City)
	l.State = strings.TrimSpace(l.State)
	l.Source = strings.TrimSpace(l.Source)
	l.Status = strings.TrimSpace(l.Status)
}

// ApplyDefaults fills the enumerated fields a new lead may omit.
func (l *Lead) ApplyDefaults() {
	if l.Source == "" {
		l.Source = SourceWebsite
	}
	if l.Status == "" {
		l.Status = StatusNew
	}
}
