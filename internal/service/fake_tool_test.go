package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parisxmas/rosterfill/internal/models"
	"github.com/parisxmas/rosterfill/internal/pdftool"
)

// filledDoc is what fakeTool writes for set_fields: one JSON line naming the
// template and the answers.
type filledDoc struct {
	Template string            `json:"template"`
	Answers  map[string]string `json:"answers"`
}

// fakeTool stands in for pdfparser.jar. Filled files are JSON lines and
// concatenation appends them, so merged outputs can be inspected.
type fakeTool struct {
	mu     sync.Mutex
	fields map[string][]models.FieldDescriptor // by template base name
	failOn map[string]error                    // by template base name
	calls  []string
}

func newFakeTool() *fakeTool {
	return &fakeTool{
		fields: map[string][]models.FieldDescriptor{},
		failOn: map[string]error{},
	}
}

func (f *fakeTool) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeTool) ListFields(_ context.Context, path string) ([]models.FieldDescriptor, error) {
	f.record(pdftool.CmdGetFields + " " + filepath.Base(path))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &pdftool.ExternalToolError{Command: pdftool.CmdGetFields, Stderr: err.Error()}
	}
	if bytes.HasPrefix(data, []byte("{")) {
		var doc filledDoc
		if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
			return nil, err
		}
		var out []models.FieldDescriptor
		for _, fd := range f.fields[doc.Template] {
			fd.Value = doc.Answers[fd.Name]
			out = append(out, fd)
		}
		return out, nil
	}
	return f.fields[filepath.Base(path)], nil
}

func (f *fakeTool) SetFields(_ context.Context, template, dest string, answers models.AnswerMap) error {
	base := filepath.Base(template)
	f.record(pdftool.CmdSetFields + " " + base)
	if err := f.failOn[base]; err != nil {
		return err
	}
	line, err := json.Marshal(filledDoc{Template: base, Answers: answers})
	if err != nil {
		return err
	}
	return os.WriteFile(dest, append(line, '\n'), 0o600)
}

func (f *fakeTool) Concat(_ context.Context, inputs []string, dest string) error {
	f.record(pdftool.CmdConcatFiles)
	var buf bytes.Buffer
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return &pdftool.ExternalToolError{Command: pdftool.CmdConcatFiles, Stderr: err.Error()}
		}
		buf.Write(data)
	}
	return os.WriteFile(dest, buf.Bytes(), 0o600)
}

var errToolBoom = errors.New("boom")

// readDocs decodes a fakeTool output file into its filled documents.
func readDocs(t *testing.T, path string) []filledDoc {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []filledDoc
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		var d filledDoc
		require.NoError(t, json.Unmarshal(line, &d))
		docs = append(docs, d)
	}
	return docs
}

// writeTemplates creates placeholder template files below dir.
func writeTemplates(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4 template"), 0o644))
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
