package model

// Lead is a user who submitted a lead form, with delivery status of the
// automated message.
type Lead struct {
	ID            int64  `json:"id"`
	LeadID        string `json:"lead_id"`
	AdID          int64  `json:"ad_id,omitempty"`
	AdName        string `json:"ad_name,omitempty"`
	CampaignName  string `json:"campaign_name,omitempty"`
	UserFBID      string `json:"user_fb_id,omitempty"`
	UserName      string `json:"user_name,omitempty"`
	MessageSent   bool   `json:"message_sent"`
	MessageText   string `json:"message_text,omitempty"`
	MessageSentAt string `json:"message_sent_at,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// DeliveryStatus is the delivery state shown for a lead.
type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "Sent"
	StatusFailed  DeliveryStatus = "Failed"
	StatusPending DeliveryStatus = "Pending"
)

// Status reports Sent, Failed (an error was recorded) or Pending.
func (l Lead) Status() DeliveryStatus {
	if l.MessageSent {
		return StatusSent
	}
	if l.ErrorMessage != "" {
		return StatusFailed
	}
	return StatusPending
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// LeadPage is one page of leads.
type LeadPage struct {
	Leads      []Lead     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// AdLeadCount is the number of leads attributed to one ad.
type AdLeadCount struct {
	AdName string `json:"ad_name"`
	Count  int    `json:"count"`
}

// LeadStats aggregates delivery counters across all leads.
type LeadStats struct {
	TotalLeads     int           `json:"total_leads"`
	MessagesSent   int           `json:"messages_sent"`
	MessagesFailed int           `json:"messages_failed"`
	SuccessRate    float64       `json:"success_rate"`
	LeadsByAd      []AdLeadCount `json:"leads_by_ad,omitempty"`
}
