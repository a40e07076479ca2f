package attendance

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"

	MsgCheckedIn  = "Checked in successfully"
	MsgCheckedOut = "Checked out successfully"
)

type ListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q ListQuery) normalize() (page, limit, offset int) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}

// RecordResponse carries wall-clock times (HH:MM:SS) in the server zone.
type RecordResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name,omitempty"`
	Date     string  `json:"date"`
	TimeIn   *string `json:"time_in"`
	TimeOut  *string `json:"time_out"`
	Status   string  `json:"status"`
}

type TodayResponse struct {
	Attendance *RecordResponse `json:"attendance"`
}

type ActionResponse struct {
	Message    string         `json:"message"`
	Status     string         `json:"status"`
	Attendance RecordResponse `json:"attendance"`
}

type ListResponse struct {
	Attendances []RecordResponse `json:"attendances"`
}
