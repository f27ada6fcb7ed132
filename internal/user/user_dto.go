package user

// SessionResponse is the explicit session context the dashboard renders from.
type SessionResponse struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	UserName    string   `json:"userName"`
	Role        string   `json:"role,omitempty"`
	CompanyID   string   `json:"companyId,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	InviteCode  string   `json:"inviteCode,omitempty"`
	IsNewUser   bool     `json:"isNewUser"`
	Permissions []string `json:"permissions"`
}

type MemberResponse struct {
	UID       string `json:"uid"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	UpdatedAt string `json:"updatedAt"`
}
