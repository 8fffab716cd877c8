package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/parisxmas/rosterfill/internal/models"
	"github.com/parisxmas/rosterfill/internal/pdftool"
	"github.com/parisxmas/rosterfill/internal/tempfiles"
)

// Filler validates answers against a template's choice fields and writes a
// filled copy into a temp file.
type Filler struct {
	tool pdftool.Tool
}

func NewFiller(tool pdftool.Tool) *Filler {
	return &Filler{tool: tool}
}

// FieldData returns the template's field descriptors.
func (f *Filler) FieldData(ctx context.Context, templatePath string) ([]models.FieldDescriptor, error) {
	if err := checkTemplate(templatePath); err != nil {
		return nil, err
	}
	fields, err := f.tool.ListFields(ctx, templatePath)
	if err != nil {
		return nil, fmt.Errorf("list fields of %s: %w", templatePath, err)
	}
	return fields, nil
}

// Fill writes templatePath filled with answers to a new file owned by mgr
// and returns its path.
func (f *Filler) Fill(ctx context.Context, mgr *tempfiles.Manager, templatePath string, answers models.AnswerMap) (string, error) {
	fields, err := f.FieldData(ctx, templatePath)
	if err != nil {
		return "", err
	}
	if err := Validate(answers, OptionLookup(fields)); err != nil {
		return "", err
	}
	dest, err := mgr.Allocate("")
	if err != nil {
		return "", err
	}
	if err := f.tool.SetFields(ctx, templatePath, dest, answers); err != nil {
		return "", fmt.Errorf("fill %s: %w", templatePath, err)
	}
	if _, err := os.Stat(dest); err != nil {
		return "", fmt.Errorf("fill %s: tool produced no output: %w", templatePath, err)
	}
	return dest, nil
}

func checkTemplate(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &TemplateNotFoundError{Path: path, Err: err}
	}
	if err != nil {
		return fmt.Errorf("stat template: %w", err)
	}
	if info.IsDir() {
		return &TemplateNotFoundError{Path: path, Err: fs.ErrNotExist}
	}
	return nil
}
