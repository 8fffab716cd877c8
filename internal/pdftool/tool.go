// Package pdftool drives the external PDF form tool (pdfparser.jar) as a
// subprocess. The tool reports form fields as JSON, fills fields into a copy
// of a template and concatenates files.
package pdftool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/parisxmas/rosterfill/internal/models"
)

// Subcommands understood by pdfparser.jar.
const (
	CmdGetFields   = "get_fields"
	CmdSetFields   = "set_fields"
	CmdConcatFiles = "concat_files"
)

// waitDelay bounds how long a killed tool may hold its output pipes open.
const waitDelay = 5 * time.Second

// Tool is the narrow surface of the external PDF tool.
type Tool interface {
	ListFields(ctx context.Context, templatePath string) ([]models.FieldDescriptor, error)
	SetFields(ctx context.Context, templatePath, destPath string, answers models.AnswerMap) error
	Concat(ctx context.Context, inputs []string, destPath string) error
}

// CLI runs the tool as "<argv0> <prefix...> <subcommand> <args...>".
type CLI struct {
	argv0  string
	prefix []string

	// Timeout bounds one invocation. Zero means no limit beyond ctx.
	Timeout time.Duration
	// Strict treats any stderr output as failure. When false, stderr is
	// logged and only the exit status decides.
	Strict bool
	// Debug logs every invocation.
	Debug bool
}

// NewCLI returns a strict CLI running argv0 with the given leading arguments.
func NewCLI(argv0 string, prefix ...string) *CLI {
	return &CLI{argv0: argv0, prefix: prefix, Strict: true}
}

// NewJar returns a CLI running "java -jar <jarPath>".
func NewJar(java, jarPath string) *CLI {
	if java == "" {
		java = "java"
	}
	return NewCLI(java, "-jar", jarPath)
}

type fieldList struct {
	Fields []models.FieldDescriptor `json:"fields"`
}

// ListFields returns the form fields of templatePath.
func (c *CLI) ListFields(ctx context.Context, templatePath string) ([]models.FieldDescriptor, error) {
	out, err := c.Run(ctx, CmdGetFields, templatePath)
	if err != nil {
		return nil, err
	}
	var fl fieldList
	if err := json.Unmarshal([]byte(out), &fl); err != nil {
		return nil, fmt.Errorf("pdftool: decode %s output for %s: %w", CmdGetFields, templatePath, err)
	}
	return fl.Fields, nil
}

// SetFields writes a filled copy of templatePath to destPath.
func (c *CLI) SetFields(ctx context.Context, templatePath, destPath string, answers models.AnswerMap) error {
	payload, err := EncodeAnswers(answers)
	if err != nil {
		return err
	}
	_, err = c.Run(ctx, CmdSetFields, templatePath, destPath, string(payload))
	return err
}

// Concat writes the pages of inputs, in order, to destPath.
func (c *CLI) Concat(ctx context.Context, inputs []string, destPath string) error {
	if len(inputs) == 0 {
		return errors.New("pdftool: concat needs at least one input")
	}
	args := append(append([]string{}, inputs...), destPath)
	_, err := c.Run(ctx, CmdConcatFiles, args...)
	return err
}

// EncodeAnswers renders answers as {"fields":[{"<name>":"<value>"},...]},
// one entry per field, sorted by name.
func EncodeAnswers(answers models.AnswerMap) ([]byte, error) {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, map[string]string{k: answers[k]})
	}
	data, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("pdftool: encode answers: %w", err)
	}
	return data, nil
}

// Run invokes one subcommand and returns its decoded stdout.
func (c *CLI) Run(ctx context.Context, subcommand string, args ...string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	argv := make([]string, 0, len(c.prefix)+1+len(args))
	argv = append(argv, c.prefix...)
	argv = append(argv, subcommand)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, c.argv0, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	runErr := cmd.Run()
	if c.Debug {
		log.Printf("Debug: pdftool %s %s (%d bytes out, %s)", c.argv0, subcommand, stdout.Len(), time.Since(start).Round(time.Millisecond))
	}

	errText := strings.TrimSpace(string(stderr.Bytes()))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", &ExternalToolError{Command: subcommand, Stderr: errText, Err: ctxErr}
	}
	if errText != "" {
		if c.Strict {
			return "", &ExternalToolError{Command: subcommand, Stderr: errText, Err: runErr}
		}
		log.Printf("Warning: pdftool %s stderr: %s", subcommand, errText)
	}
	if runErr != nil {
		return "", &ExternalToolError{Command: subcommand, Stderr: errText, Err: runErr}
	}

	out, err := DecodeOutput(stdout.Bytes())
	if err != nil {
		return "", fmt.Errorf("pdftool: %s: %w", subcommand, err)
	}
	return out, nil
}
