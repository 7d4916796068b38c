package models

// DashboardStats is the payload of GET /dashboard/stats.
type DashboardStats struct {
	TotalStudents     int          `json:"totalStudents"`
	ActiveStudents    int          `json:"activeStudents"`
	TotalCourses      int          `json:"totalCourses"`
	ActiveCohorts     int          `json:"activeCohorts"`
	TotalEnrollments  int          `json:"totalEnrollments"`
	PendingEnquiries  int          `json:"pendingEnquiries"`
	TotalRevenue      float64      `json:"totalRevenue"`
	MonthlyRevenue    float64      `json:"monthlyRevenue"`
	RecentEnrollments []Enrollment `json:"recentEnrollments,omitempty"`
	RecentPayments    []Payment    `json:"recentPayments,omitempty"`
}

func (DashboardStats) Header() []string {
	return []string{"METRIC", "VALUE"}
}

// Rows lists the headline figures as metric/value pairs.
func (s DashboardStats) Rows() [][]string {
	return [][]string{
		{"Students", itoa(s.TotalStudents)},
		{"Active students", itoa(s.ActiveStudents)},
		{"Courses", itoa(s.TotalCourses)},
		{"Active cohorts", itoa(s.ActiveCohorts)},
		{"Enrollments", itoa(s.TotalEnrollments)},
		{"Pending enquiries", itoa(s.PendingEnquiries)},
		{"Revenue", formatAmount(s.TotalRevenue)},
		{"Revenue this month", formatAmount(s.MonthlyRevenue)},
	}
}

// DashboardParams narrows GET /dashboard/stats.
type DashboardParams struct {
	CenterID string `query:"centerId"`
	From     *Date  `query:"from"`
	To       *Date  `query:"to"`
}
