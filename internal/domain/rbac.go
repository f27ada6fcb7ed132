package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Resources and actions checked by the enforcer.
const (
	ResourceMember     = "member"
	ResourceCompany    = "company"
	ResourceInviteCode = "invite_code"
	ResourceAttendance = "attendance"

	ActionRead    = "read"
	ActionReadAll = "read_all"
	ActionCreate  = "create"
	ActionRemove  = "remove"
	ActionDelete  = "delete"
	ActionReissue = "reissue"
	ActionExport  = "export"
)

type EnforceRequest struct {
	Role     Role   `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
