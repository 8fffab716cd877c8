package models

// FieldDescriptor describes one fillable field of a PDF template as reported
// by the external tool. Options is nil for free-text fields.
type FieldDescriptor struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value,omitempty"`
}

// HasChoices reports whether the field only accepts one of Options.
func (f FieldDescriptor) HasChoices() bool {
	return len(f.Options) > 0
}

// AnswerMap maps PDF field names to the values written into them.
type AnswerMap map[string]string
