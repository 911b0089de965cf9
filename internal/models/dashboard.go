package models

// StatusCounts holds project counts grouped by lifecycle status.
type StatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// ManagerSummary is one SuperAdmin dashboard row: a manager and the status
// breakdown of the projects that manager created.
type ManagerSummary struct {
	Manager UserRef      `json:"manager"`
	Counts  StatusCounts `json:"counts"`
}

// SuperAdminDashboard aggregates across all managers plus global totals.
type SuperAdminDashboard struct {
	TotalUsers int64            `json:"total_users"`
	Projects   StatusCounts     `json:"projects"`
	Managers   []ManagerSummary `json:"managers"`
}

// ScopedDashboard is the Manager and Staff dashboard shape: counts plus the
// projects themselves grouped by status, limited to the principal's scope
// (created-by for Manager, assigned-to for Staff).
type ScopedDashboard struct {
	Counts   StatusCounts                        `json:"counts"`
	Projects map[ProjectStatus][]ProjectResponse `json:"projects"`
}

// Dashboard is the role-dependent payload of GET /dashboard. Exactly one of
// the fields is set, matching the principal's role.
type Dashboard struct {
	Role       Role                 `json:"role"`
	SuperAdmin *SuperAdminDashboard `json:"super_admin,omitempty"`
	Manager    *ScopedDashboard     `json:"manager,omitempty"`
	Staff      *ScopedDashboard     `json:"staff,omitempty"`
}
