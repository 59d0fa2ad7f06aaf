package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// CollegeData is the enrichment payload fetched from university systems
// after a user verifies their email. Stored as a jsonb column on users.
type CollegeData struct {
	Department   string   `json:"department"`
	Courses      []string `json:"courses"`
	AcademicYear string   `json:"academic_year"`
	Semester     string   `json:"semester"`
	Advisor      string   `json:"advisor,omitempty"`
	GPA          float64  `json:"gpa,omitempty"`
}

// Value implements driver.Valuer for jsonb serialization.
func (c CollegeData) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for jsonb deserialization.
func (c *CollegeData) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for CollegeData")
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal college data: %w", err)
	}
	return nil
}
