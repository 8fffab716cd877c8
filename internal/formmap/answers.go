package formmap

import (
	"sort"
	"strconv"

	"github.com/parisxmas/rosterfill/internal/models"
)

// SeedRowCount is the number of numbered row copies the certificate
// templates lay out per student.
const SeedRowCount = 13

// Fields copied into every numbered row of the per-student templates.
var seededFields = []string{
	"Student Name",
	"Date of Test",
	"Instructor Initials",
	"Instructor Number",
	"Date",
}

// Second-page copies of lead instructor details used by the BLS roster.
var crossCopies = []struct{ dst, src string }{
	{"Signature", "Lead Instructor Signature"},
	{"Date 2", "Date"},
	{"Lead Instructor 2", "Lead Instructor"},
	{"Lead Instructor ID# 2", "Lead Instructor ID#"},
}

// SharedAnswers builds the answer map shared by every top-level template of
// a submission. Groups are applied in payload order (courseInfo, assisting
// instructors, course participants, participant rows) so later groups win on
// name clashes.
func (t *Table) SharedAnswers(sub *models.Submission) (models.AnswerMap, error) {
	answers := make(models.AnswerMap)
	for k, v := range sub.CourseInfo {
		answers[k] = v
	}
	if err := t.remapInto(answers, sub.AssistingInstructors); err != nil {
		return nil, err
	}
	for k, v := range sub.CourseParticipants {
		answers[k] = v
	}
	rows, err := sub.ParticipantFields()
	if err != nil {
		return nil, err
	}
	if err := t.remapInto(answers, rows); err != nil {
		return nil, err
	}
	for _, c := range crossCopies {
		if v, ok := answers[c.src]; ok {
			answers[c.dst] = v
		}
	}
	return answers, nil
}

func (t *Table) remapInto(dst models.AnswerMap, src map[string]string) error {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name, err := t.Remap(k)
		if err != nil {
			return err
		}
		dst[name] = src[k]
	}
	return nil
}

// StudentAnswers builds the answer map for one student's certificates.
func StudentAnswers(student models.StudentInfo, shared models.AnswerMap) models.AnswerMap {
	answers := models.AnswerMap{
		"Student Name":        student.Name,
		"Date of Test":        student.DateOfTest,
		"Instructor Initials": shared["Instructor Initials"],
		"Instructor Number":   shared["Instructor Number"],
		"Date":                shared["Date"],
	}
	SeedRows(answers)
	return answers
}

// SeedRows copies each seeded field present in answers into
// "<field> 0" through "<field> 12".
func SeedRows(answers models.AnswerMap) {
	for _, f := range seededFields {
		v, ok := answers[f]
		if !ok {
			continue
		}
		for k := 0; k < SeedRowCount; k++ {
			answers[f+" "+strconv.Itoa(k)] = v
		}
	}
}
