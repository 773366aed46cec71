package analytics

// SessionRecord is one scheduled class occurrence, normalized from the
// upstream schedule payload before aggregation. StartTime stays a string
// ("2006-01-02 15:04:05" or RFC3339); the aggregator derives date, weekday
// and hour from it and tolerates values it cannot parse.
type SessionRecord struct {
	TypeName    string       `json:"typeName"`
	TypeColor   string       `json:"typeColor"`
	Capacity    int          `json:"capacity"`
	Booked      int          `json:"booked"`
	StartTime   string       `json:"startTime"`
	Instructors []Instructor `json:"instructors,omitempty"`
	Bookings    []Booking    `json:"bookings,omitempty"`
}

type Instructor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image,omitempty"`
}

// Booking carries the per-booking detail used only for unique-participant
// counts. UserID 0 means the upstream did not expose an identifier.
type Booking struct {
	UserID             int64 `json:"userId"`
	TrainingCardTypeID int64 `json:"trainingCardTypeId,omitempty"`
}

// Report is the aggregated analytics for one query window. Every rate and
// average is a percentage (or count) rendered to one decimal as a string,
// "0" when the denominator is zero.
type Report struct {
	Summary      Summary           `json:"summary"`
	ByType       []TypeStats       `json:"byType"`
	ByDay        []DayStats        `json:"byDay"`
	ByHour       []HourStats       `json:"byHour"`
	ByInstructor []InstructorStats `json:"byInstructor"`
	DailyTrend   []DailyStats      `json:"dailyTrend"`
}

type Summary struct {
	TotalClasses          int    `json:"totalClasses"`
	TotalBooked           int    `json:"totalBooked"`
	TotalCapacity         int    `json:"totalCapacity"`
	OverallAttendanceRate string `json:"overallAttendanceRate"`
	AvgBookedPerClass     string `json:"avgBookedPerClass"`
	FullyBookedClasses    int    `json:"fullyBookedClasses"`
	FullyBookedRate       string `json:"fullyBookedRate"`
	EmptyClasses          int    `json:"emptyClasses"`
	EmptyRate             string `json:"emptyRate"`
	UniqueParticipants    int    `json:"uniqueParticipants"`
}

type TypeStats struct {
	Type               string `json:"type"`
	Color              string `json:"color"`
	Classes            int    `json:"classes"`
	TotalBooked        int    `json:"totalBooked"`
	TotalCapacity      int    `json:"totalCapacity"`
	AvgAttendance      string `json:"avgAttendance"`
	AttendanceRate     string `json:"attendanceRate"`
	AvgBookingRate     string `json:"avgBookingRate"`
	UniqueParticipants int    `json:"uniqueParticipants"`
}

type DayStats struct {
	Day            string `json:"day"`
	Classes        int    `json:"classes"`
	AvgAttendance  string `json:"avgAttendance"`
	AttendanceRate string `json:"attendanceRate"`
}

type HourStats struct {
	Hour           int    `json:"hour"`
	Label          string `json:"label"`
	Classes        int    `json:"classes"`
	AvgAttendance  string `json:"avgAttendance"`
	AttendanceRate string `json:"attendanceRate"`
}

type InstructorStats struct {
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	Classes        int    `json:"classes"`
	TotalBooked    int    `json:"totalBooked"`
	TotalCapacity  int    `json:"totalCapacity"`
	AttendanceRate string `json:"attendanceRate"`
}

type DailyStats struct {
	Date           string `json:"date"`
	Classes        int    `json:"classes"`
	TotalBooked    int    `json:"totalBooked"`
	TotalCapacity  int    `json:"totalCapacity"`
	AttendanceRate string `json:"attendanceRate"`
}
