package report

import (
	"path/filepath"

	"github.com/openswoop/hooscheds/pkg/catalog"
)

// WriteBatches dumps normalized batches as one CSV per table, named
// "{name}_{table}.csv" inside dir. It returns the files written.
func WriteBatches(dir, name string, batches []catalog.Batch) ([]string, error) {
	var (
		departments  []catalog.Department
		courses      []catalog.Course
		associations []catalog.CourseDepartment
		sections     []catalog.Section
	)
	for _, b := range batches {
		departments = append(departments, b.Department)
		for _, rec := range b.Records {
			courses = append(courses, rec.Course)
			associations = append(associations, rec.Association)
			sections = append(sections, rec.Section)
		}
	}

	tables := []struct {
		table string
		rows  interface{}
	}{
		{catalog.TableDepartment, departments},
		{catalog.TableCourse, courses},
		{catalog.TableCourseDepartment, associations},
		{catalog.TableSection, sections},
	}

	var files []string
	for _, t := range tables {
		file := filepath.Join(dir, name+"_"+t.table+".csv")
		if err := WriteCsv(t.rows, file); err != nil {
			return files, err
		}
		files = append(files, file)
	}
	return files, nil
}
