package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSchool owns every department no school claims.
const DefaultSchool = "College of Arts & Sciences"

//go:embed schools.yaml
var defaultSchools []byte

type School struct {
	Name        string
	Departments []string
}

// Schools maps school names to department codes. Document order is kept
// because it breaks ties between schools that list the same code.
type Schools []School

func (s *Schools) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: schools must be a mapping of name to department codes", node.Line)
	}
	schools := make(Schools, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var school School
		if err := node.Content[i].Decode(&school.Name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&school.Departments); err != nil {
			return fmt.Errorf("school %q: %w", school.Name, err)
		}
		schools = append(schools, school)
	}
	*s = schools
	return nil
}

// ParseSchools decodes a YAML school mapping.
func ParseSchools(data []byte) (Schools, error) {
	var schools Schools
	if err := yaml.Unmarshal(data, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// LoadSchools reads the mapping at path, or the built-in one when path is empty.
func LoadSchools(path string) (Schools, error) {
	if path == "" {
		return ParseSchools(defaultSchools)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchools(data)
}

// Resolve returns the first school listing the department code, or DefaultSchool.
func (s Schools) Resolve(dept string) string {
	for _, school := range s {
		for _, code := range school.Departments {
			if code == dept {
				return school.Name
			}
		}
	}
	return DefaultSchool
}
