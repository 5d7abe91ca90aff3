package model

// OverviewStats is the dashboard summary. Super-admin principals see
// platform-wide numbers (excluding the operator tenant itself); everyone
// else sees their own clinic.
type OverviewStats struct {
	TotalTenants      int64 `json:"total_tenants,omitempty"`
	TotalPatients     int64 `json:"total_patients"`
	TotalStaff        int64 `json:"total_staff"`
	TodayAppointments int64 `json:"today_appointments"`
	IsSuperAdmin      bool  `json:"is_super_admin"`
}

// GrowthPoint is one month of tenant signups.
type GrowthPoint struct {
	Month   string `json:"month" db:"month"`
	Clinics int64  `json:"clinics" db:"clinics"`
}
