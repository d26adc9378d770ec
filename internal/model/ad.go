package model

import "strconv"

// Ad is a synced Facebook/Instagram ad as returned by the lead API.
type Ad struct {
	ID           int64  `json:"id"`
	AdID         string `json:"ad_id"`
	AdName       string `json:"ad_name"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	AdsetID      string `json:"adset_id,omitempty"`
	AdsetName    string `json:"adset_name,omitempty"`
	Status       string `json:"status,omitempty"`
	Platform     string `json:"platform,omitempty"`
	IsActive     bool   `json:"is_active"`
	HasTemplate  bool   `json:"has_template"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// AdFilter narrows the ad list by activity.
type AdFilter string

const (
	AdFilterAll      AdFilter = "all"
	AdFilterActive   AdFilter = "active"
	AdFilterInactive AdFilter = "inactive"
)

// ParseAdFilter maps user input to a filter; anything unknown means all.
func ParseAdFilter(s string) AdFilter {
	switch AdFilter(s) {
	case AdFilterActive:
		return AdFilterActive
	case AdFilterInactive:
		return AdFilterInactive
	default:
		return AdFilterAll
	}
}

// IsActiveParam returns the is_active query value, or "" when no filter applies.
func (f AdFilter) IsActiveParam() string {
	switch f {
	case AdFilterActive:
		return strconv.FormatBool(true)
	case AdFilterInactive:
		return strconv.FormatBool(false)
	default:
		return ""
	}
}

// SyncStats counts the effect of one ad synchronization.
type SyncStats struct {
	Total       int `json:"total"`
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated"`
}

// SyncResult is the response to a manual sync trigger.
type SyncResult struct {
	Message string    `json:"message"`
	Stats   SyncStats `json:"stats"`
}
