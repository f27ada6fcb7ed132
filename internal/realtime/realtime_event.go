package realtime

import "time"

const (
	EventAttendanceRecorded = "attendance.recorded"
	EventMemberJoined       = "member.joined"
	EventMemberRemoved      = "member.removed"
	EventCompanyDeleted     = "company.deleted"
	EventInviteCodeReissued = "invite_code.reissued"
)

// Event is a change notification pushed to feed subscribers. An empty UID
// addresses every member of the company.
type Event struct {
	Type       string    `json:"type"`
	CompanyID  string    `json:"companyId"`
	UID        string    `json:"uid,omitempty"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

func NopPublisher() Publisher { return nopPublisher{} }
