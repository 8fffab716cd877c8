package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/parisxmas/rosterfill/internal/models"
)

// InvalidOptionError is returned when an answer for a choice field is not
// one of the choices the template offers.
type InvalidOptionError struct {
	Field   string
	Value   string
	Choices []string
}

func (e *InvalidOptionError) Error() string {
	quoted := make([]string, len(e.Choices))
	for i, c := range e.Choices {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("%q is not a valid option for %q. Choices: [%s]", e.Value, e.Field, strings.Join(quoted, ", "))
}

// OptionLookup maps each choice field name to its allowed values. Free-text
// fields are left out.
func OptionLookup(fields []models.FieldDescriptor) map[string][]string {
	out := make(map[string][]string, len(fields))
	for _, f := range fields {
		if f.HasChoices() {
			out[f.Name] = f.Options
		}
	}
	return out
}

// Validate checks every answer whose field has a choice list. Answers for
// unknown or free-text fields pass. Fields are checked in name order so the
// reported error is stable.
func Validate(answers models.AnswerMap, options map[string][]string) error {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		choices := options[k]
		if len(choices) == 0 {
			continue
		}
		if v := answers[k]; !slices.Contains(choices, v) {
			return &InvalidOptionError{Field: k, Value: v, Choices: choices}
		}
	}
	return nil
}
