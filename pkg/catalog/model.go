package catalog

// Table names in the relational sink.
const (
	TableDepartment       = "Department"
	TableCourse           = "Course"
	TableCourseDepartment = "course_department"
	TableSection          = "Section"
)

// ClearOrder lists the tables children first so deletes respect foreign keys.
var ClearOrder = []string{TableCourseDepartment, TableSection, TableCourse, TableDepartment}

// Row is anything the loader can insert.
type Row interface {
	Table() string
	Key() string
}

type Department struct {
	DeptID     string `db:"dept_id" csv:"dept_id" bigquery:"dept_id"`
	DeptName   string `db:"dept_name" csv:"dept_name" bigquery:"dept_name"`
	SchoolName string `db:"school_name" csv:"school_name" bigquery:"school_name"`
}

type Course struct {
	CourseID          string `db:"course_id" csv:"course_id" bigquery:"course_id"`
	CourseName        string `db:"course_name" csv:"course_name" bigquery:"course_name"`
	CourseDescription string `db:"course_description" csv:"course_description" bigquery:"course_description"`
	Term              string `db:"term" csv:"term" bigquery:"term"`
}

// CourseDepartment links a course to a department that offers it.
type CourseDepartment struct {
	CourseID string `db:"course_id" csv:"course_id" bigquery:"course_id"`
	DeptID   string `db:"dept_id" csv:"dept_id" bigquery:"dept_id"`
}

type Section struct {
	SectionID    string `db:"section_id" csv:"section_id" bigquery:"section_id"`
	CourseID     string `db:"course_id" csv:"course_id" bigquery:"course_id"`
	Professor    string `db:"professor" csv:"professor" bigquery:"professor"`
	Location     string `db:"location" csv:"location" bigquery:"location"`
	StartTime    string `db:"start_time" csv:"start_time" bigquery:"start_time"`
	EndTime      string `db:"end_time" csv:"end_time" bigquery:"end_time"`
	MeetingDates string `db:"meeting_dates" csv:"meeting_dates" bigquery:"meeting_dates"`
	Availability string `db:"availability" csv:"availability" bigquery:"availability"`
}

func (d *Department) Table() string       { return TableDepartment }
func (d *Department) Key() string         { return d.DeptID }
func (c *Course) Table() string           { return TableCourse }
func (c *Course) Key() string             { return c.CourseID }
func (a *CourseDepartment) Table() string { return TableCourseDepartment }
func (a *CourseDepartment) Key() string   { return a.CourseID + "/" + a.DeptID }
func (s *Section) Table() string          { return TableSection }
func (s *Section) Key() string            { return s.CourseID + "/" + s.SectionID }

// Record is everything one upstream course record turns into.
type Record struct {
	Course      Course
	Association CourseDepartment
	Section     Section
}

// Batch is the normalized output for one department.
type Batch struct {
	Department Department
	Records    []Record
	// Skipped counts records dropped by the catalog number threshold.
	Skipped int
	// Repeated counts extra meeting rows of a section already in Records.
	Repeated int
}

// ByCourse groups record indexes by course id, keeping the order in which
// each course and each of its sections first appeared.
func (b Batch) ByCourse() [][]int {
	var groups [][]int
	index := make(map[string]int)
	for i, rec := range b.Records {
		g, ok := index[rec.Course.CourseID]
		if !ok {
			g = len(groups)
			index[rec.Course.CourseID] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
