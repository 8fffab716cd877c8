package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/rosterfill/internal/models"
)

func TestValidate(t *testing.T) {
	options := OptionLookup([]models.FieldDescriptor{
		{Name: "Status", Options: []string{"Yes", "No"}},
		{Name: "Name"},
		{Name: "Empty", Options: []string{}},
	})

	tests := []struct {
		name    string
		answers models.AnswerMap
		wantErr bool
	}{
		{"member", models.AnswerMap{"Status": "Yes"}, false},
		{"other member", models.AnswerMap{"Status": "No"}, false},
		{"not a member", models.AnswerMap{"Status": "Maybe"}, true},
		{"case sensitive", models.AnswerMap{"Status": "yes"}, true},
		{"empty value", models.AnswerMap{"Status": ""}, true},
		{"free text", models.AnswerMap{"Name": "anything"}, false},
		{"empty options list", models.AnswerMap{"Empty": "anything"}, false},
		{"unknown field", models.AnswerMap{"Other": "x"}, false},
		{"no answers", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.answers, options)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInvalidOptionErrorDetails(t *testing.T) {
	err := Validate(models.AnswerMap{"Status": "Maybe"}, map[string][]string{"Status": {"Yes", "No"}})

	var ioe *InvalidOptionError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "Status", ioe.Field)
	assert.Equal(t, "Maybe", ioe.Value)
	assert.Equal(t, []string{"Yes", "No"}, ioe.Choices)
	assert.Contains(t, err.Error(), `"Maybe"`)
	assert.Contains(t, err.Error(), `"Status"`)
	assert.Contains(t, err.Error(), `["Yes", "No"]`)
}

func TestOptionLookupKeepsOnlyChoiceFields(t *testing.T) {
	options := OptionLookup([]models.FieldDescriptor{
		{Name: "Café", Options: []string{"Sí", "No"}},
		{Name: "Name"},
	})

	assert.Equal(t, map[string][]string{"Café": {"Sí", "No"}}, options)
	assert.NoError(t, Validate(models.AnswerMap{"Café": "Sí", "Name": "Ana"}, options))
	assert.Error(t, Validate(models.AnswerMap{"Café": "Si"}, options))
}
