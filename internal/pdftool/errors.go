package pdftool

import "fmt"

// ExternalToolError reports a failed tool invocation. Stderr holds whatever
// the tool printed on standard error.
type ExternalToolError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ExternalToolError) Error() string {
	switch {
	case e.Stderr != "" && e.Err != nil:
		return fmt.Sprintf("pdftool: %s failed: %v: %s", e.Command, e.Err, e.Stderr)
	case e.Stderr != "":
		return fmt.Sprintf("pdftool: %s failed: %s", e.Command, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("pdftool: %s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("pdftool: %s failed", e.Command)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
