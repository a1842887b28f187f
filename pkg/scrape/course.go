package scrape

// RawCourse is one upstream course record before normalization, whatever
// API shape it came from.
type RawCourse struct {
	Subject       string
	CatalogNumber string
	Section       string
	Title         string
	Description   string
	Instructor    string
	Meetings      []Meeting
	Term          string

	// Enrollment counts are nil when the upstream API doesn't report them.
	EnrollmentAvailable *int
	EnrollmentTotal     *int

	// Department is the department the record was fetched under. It differs
	// from Subject for cross-listed courses.
	Department string
}

type Meeting struct {
	Days      string
	StartTime string
	EndTime   string
	Facility  string
}
