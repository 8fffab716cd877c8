package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNothingToMerge  = errors.New("no documents selected")
	ErrInvalidFileName = errors.New("invalid file name")
)

// TemplateNotFoundError is returned when a selected template does not exist
// on disk.
type TemplateNotFoundError struct {
	Path string
	Err  error
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return e.Err
}

// OutputFileName validates a client supplied base name and returns it with
// the ".pdf" extension.
func OutputFileName(name string) (string, error) {
	if err := checkPlainName(name); err != nil {
		return "", err
	}
	return name + ".pdf", nil
}

func checkPlainName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidFileName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidFileName, name)
	}
	return nil
}
