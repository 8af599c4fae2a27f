package events

// Collection event types for downstream rollups and integrations.
const (
	EventDebtCreated             = "debt.created"
	EventDebtReclassified        = "debt.reclassified"
	EventDebtPaid                = "debt.paid"
	EventDebtCancelled           = "debt.cancelled"
	EventCommunicationDispatched = "communication.dispatched"
)

// DebtReclassifiedPayload captures the minimal data needed to roll up a
// tier transition.
type DebtReclassifiedPayload struct {
	DebtID        string `json:"debt_id"`
	FromTier      string `json:"from_tier"`
	ToTier        string `json:"to_tier"`
	DaysInArrears int    `json:"days_in_arrears"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p DebtReclassifiedPayload) ToMap() map[string]any {
	return map[string]any{
		"debt_id":         p.DebtID,
		"from_tier":       p.FromTier,
		"to_tier":         p.ToTier,
		"days_in_arrears": p.DaysInArrears,
	}
}

// CommunicationDispatchedPayload captures the outcome of one dispatch.
type CommunicationDispatchedPayload struct {
	CommunicationID string `json:"communication_id"`
	DebtID          string `json:"debt_id"`
	Channel         string `json:"channel"`
	Status          string `json:"status"`
	CampaignID      string `json:"campaign_id,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p CommunicationDispatchedPayload) ToMap() map[string]any {
	payload := map[string]any{
		"communication_id": p.CommunicationID,
		"debt_id":          p.DebtID,
		"channel":          p.Channel,
		"status":           p.Status,
	}
	if p.CampaignID != "" {
		payload["campaign_id"] = p.CampaignID
	}
	return payload
}
