package events

import "time"

// IdentityCleanupTopic carries identity accounts whose deletion failed after
// the owning records were already committed away.
const IdentityCleanupTopic = "attendance.identity.cleanup.v1"

const EventIdentityCleanupRequested = "identity.cleanup.requested"

type IdentityCleanupRequestedEvent struct {
	EventType  string    `json:"event_type"`
	UID        string    `json:"uid"`
	CompanyID  string    `json:"company_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
