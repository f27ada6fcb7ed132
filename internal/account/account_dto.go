package account

type CreateCompanyRequest struct {
	CompanyName string `json:"companyName" binding:"required,notblank,max=100"`
	UserName    string `json:"userName" binding:"required,notblank,max=100"`
}

type CreateCompanyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type JoinCompanyRequest struct {
	InviteCode string `json:"inviteCode" binding:"required,notblank"`
	UserName   string `json:"userName" binding:"required,notblank,max=100"`
}

type JoinCompanyResponse struct {
	Success     bool   `json:"success"`
	CompanyName string `json:"companyName"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ReissueInviteCodeResponse struct {
	Success       bool   `json:"success"`
	NewInviteCode string `json:"newInviteCode"`
}
