package rbac

// Resources and actions used in the default policy.
const (
	ResourceAdminFeatures    = "admin_features"
	ResourceEmployeeFeatures = "employee_features"
	ResourceAttendance       = "attendance"
	ResourceAttendanceAll    = "attendance_all"

	ActionView = "view"
	ActionRead = "read"
	ActionSelf = "self"
)

type EnforceRequest struct {
	Role     Role   `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
