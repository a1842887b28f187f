package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswoop/hooscheds/pkg/catalog"
)

func TestWriteBatches(t *testing.T) {
	dir := t.TempDir()
	batches := []catalog.Batch{{
		Department: catalog.Department{DeptID: "CS", SchoolName: "School of Engineering & Applied Science"},
		Records: []catalog.Record{{
			Course:      catalog.Course{CourseID: "CS 2150", CourseName: "Program & Data Representation", Term: "Fall 2022"},
			Association: catalog.CourseDepartment{CourseID: "CS 2150", DeptID: "CS"},
			Section: catalog.Section{
				SectionID: "001", CourseID: "CS 2150", Professor: "Floryan", Location: "Rice Hall 130",
				StartTime: "1:00 PM", EndTime: "1:50 PM", MeetingDates: "MoWeFr", Availability: "12/180",
			},
		}},
	}}

	files, err := WriteBatches(dir, "CS_Fall 2022", batches)
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, filepath.Join(dir, "CS_Fall 2022_Section.csv"), files[3])

	departments, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "dept_id,dept_name,school_name\nCS,,School of Engineering & Applied Science\n", string(departments))

	sections, err := os.ReadFile(files[3])
	require.NoError(t, err)
	assert.Equal(t,
		"section_id,course_id,professor,location,start_time,end_time,meeting_dates,availability\n"+
			"001,CS 2150,Floryan,Rice Hall 130,1:00 PM,1:50 PM,MoWeFr,12/180\n",
		string(sections))
}

func TestWriteCsvBadPath(t *testing.T) {
	err := WriteCsv([]catalog.Department{}, filepath.Join(t.TempDir(), "missing", "out.csv"))
	assert.Error(t, err)
}
