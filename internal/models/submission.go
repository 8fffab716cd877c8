package models

import (
	"encoding/json"
	"fmt"
)

// StudentInfoKey is the courseParticipants1 entry holding per-student records.
const StudentInfoKey = "student-info"

// Submission is the body posted by the course roster form.
type Submission struct {
	CourseInfo           map[string]string          `json:"courseInfo"`
	AssistingInstructors map[string]string          `json:"assistingInstructors"`
	CourseParticipants   map[string]string          `json:"courseParticipants"`
	CourseParticipants1  map[string]json.RawMessage `json:"courseParticipants1"`
	SelectedOptions      []string                   `json:"selectedOptions"`
	OutputFileName       string                     `json:"outputFileName"`
}

// StudentInfo is one element of courseParticipants1["student-info"].
type StudentInfo struct {
	Name               string   `json:"cp-name"`
	DateOfTest         string   `json:"cp-dot"`
	SelectedCheckboxes []string `json:"selected-checkboxes"`
}

// ParticipantFields returns the flat cp-* entries of courseParticipants1,
// skipping the student-info list.
func (s *Submission) ParticipantFields() (map[string]string, error) {
	out := make(map[string]string, len(s.CourseParticipants1))
	for k, raw := range s.CourseParticipants1 {
		if k == StudentInfoKey {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("courseParticipants1 %q: expected string: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Students decodes the student-info list. A missing entry yields no students.
func (s *Submission) Students() ([]StudentInfo, error) {
	raw, ok := s.CourseParticipants1[StudentInfoKey]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var students []StudentInfo
	if err := json.Unmarshal(raw, &students); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StudentInfoKey, err)
	}
	return students, nil
}
