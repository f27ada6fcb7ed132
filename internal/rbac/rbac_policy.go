package rbac

import "go-attendance/internal/domain"

type permission struct {
	role     domain.Role
	resource string
	action   string
}

// defaultPolicy is the full permission table. Admins inherit every user permission.
var defaultPolicy = []permission{
	{domain.RoleUser, domain.ResourceAttendance, domain.ActionCreate},
	{domain.RoleUser, domain.ResourceAttendance, domain.ActionRead},
	{domain.RoleUser, domain.ResourceAttendance, domain.ActionExport},

	{domain.RoleAdmin, domain.ResourceAttendance, domain.ActionReadAll},
	{domain.RoleAdmin, domain.ResourceMember, domain.ActionRead},
	{domain.RoleAdmin, domain.ResourceMember, domain.ActionRemove},
	{domain.RoleAdmin, domain.ResourceCompany, domain.ActionDelete},
	{domain.RoleAdmin, domain.ResourceInviteCode, domain.ActionReissue},
}

var roleInheritance = [][2]domain.Role{
	{domain.RoleAdmin, domain.RoleUser},
}
