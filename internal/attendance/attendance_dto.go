package attendance

type RecordAttendanceRequest struct {
	Type      string `json:"type" binding:"required"`
	CompanyID string `json:"companyId" binding:"required"`
}

type RecordAttendanceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListLogsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type LogResponse struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	UserName  string `json:"userName"`
	Type      string `json:"type"`
	CompanyID string `json:"companyId"`
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"createdAt"`
}
