package events

import "time"

const AccountLifecycleTopic = "attendance.account.lifecycle.v1"

const (
	EventCompanyCreated     = "company_created"
	EventMemberJoined       = "member_joined"
	EventMemberRemoved      = "member_removed"
	EventCompanyDeleted     = "company_deleted"
	EventInviteCodeReissued = "invite_code_reissued"
)

const (
	AggregateTypeCompany    = "company"
	AggregateTypeIdentity   = "identity"
	AggregateTypeAttendance = "attendance"
)

type AccountLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	CompanyID  string    `json:"company_id"`
	UID        string    `json:"uid"`
	ActorUID   string    `json:"actor_uid"`
	OccurredAt time.Time `json:"occurred_at"`
}
