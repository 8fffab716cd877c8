package pdftool

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/rosterfill/internal/models"
)

// fakeTool mimics the jar's subcommands closely enough to exercise CLI.
const fakeTool = `#!/bin/sh
cmd="$1"; shift
case "$cmd" in
get_fields)
  case "$1" in
    *broken*) echo "Exception in thread main: boom" >&2; exit 1 ;;
    *warn*) echo "WARN: font substituted" >&2; printf '{"fields":[]}'; exit 0 ;;
    *silent*) exit 3 ;;
    *slow*) exec sleep 5 ;;
    *escaped*)
      cat <<'JSON'
{"fields":[{"name":"Greeting","value":"say \"hi\""},{"name":"Notes","value":"line one\nline two"},{"name":"Café","options":["Sí","No"]}]}
JSON
      exit 0 ;;
    *filled*)
      # a filled copy reports the values stored by set_fields
      sed 's/\([[,]\){"\([^"]*\)":/\1{"name":"\2","value":/g' "$1"
      exit 0 ;;
  esac
  printf '{"fields":[{"name":"Name"},{"name":"Status","options":["Yes","No"]},{"name":"Caf\\u00e9"}]}'
  ;;
set_fields)
  printf '%s' "$3" > "$2"
  ;;
concat_files)
  last=""
  for a in "$@"; do last="$a"; done
  : > "$last"
  for a in "$@"; do
    [ "$a" = "$last" ] && break
    cat "$a" >> "$last"
  done
  ;;
*)
  echo "unknown command $cmd" >&2; exit 2 ;;
esac
`

func newFakeCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "pdfparser.sh")
	require.NoError(t, os.WriteFile(script, []byte(fakeTool), 0o755))
	return NewCLI(sh, script), dir
}

func TestListFields(t *testing.T) {
	cli, dir := newFakeCLI(t)

	fields, err := cli.ListFields(context.Background(), filepath.Join(dir, "Roster.pdf"))
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "Name", fields[0].Name)
	assert.False(t, fields[0].HasChoices())
	assert.Equal(t, []string{"Yes", "No"}, fields[1].Options)
	assert.Equal(t, "Café", fields[2].Name)
}

func TestListFieldsKeepsJSONEscapesAndUTF8(t *testing.T) {
	cli, dir := newFakeCLI(t)

	fields, err := cli.ListFields(context.Background(), filepath.Join(dir, "escaped.pdf"))
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, `say "hi"`, fields[0].Value)
	assert.Equal(t, "line one\nline two", fields[1].Value)
	assert.Equal(t, "Café", fields[2].Name)
	assert.Equal(t, []string{"Sí", "No"}, fields[2].Options)
}

func TestSetFieldsThenListFieldsRoundTrip(t *testing.T) {
	cli, dir := newFakeCLI(t)
	dest := filepath.Join(dir, "filled.pdf")
	answers := models.AnswerMap{
		"Greeting": `say "hi"`,
		"Notes":    "line one\nline two",
		"Statut":   "Sí",
		"Path":     `C:\forms\roster`,
	}

	require.NoError(t, cli.SetFields(context.Background(), filepath.Join(dir, "Roster.pdf"), dest, answers))
	fields, err := cli.ListFields(context.Background(), dest)
	require.NoError(t, err)

	got := models.AnswerMap{}
	for _, f := range fields {
		got[f.Name] = f.Value
	}
	assert.Equal(t, answers, got)
}

func TestStderrIsFatal(t *testing.T) {
	cli, dir := newFakeCLI(t)

	_, err := cli.ListFields(context.Background(), filepath.Join(dir, "broken.pdf"))
	var ete *ExternalToolError
	require.True(t, errors.As(err, &ete), "expected ExternalToolError, got %v", err)
	assert.Equal(t, CmdGetFields, ete.Command)
	assert.Contains(t, ete.Stderr, "boom")

	// warnings count as failures in strict mode
	_, err = cli.ListFields(context.Background(), filepath.Join(dir, "warn.pdf"))
	require.True(t, errors.As(err, &ete))
	assert.Contains(t, ete.Stderr, "font substituted")
}

func TestLenientStderr(t *testing.T) {
	cli, dir := newFakeCLI(t)
	cli.Strict = false

	fields, err := cli.ListFields(context.Background(), filepath.Join(dir, "warn.pdf"))
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = cli.ListFields(context.Background(), filepath.Join(dir, "broken.pdf"))
	var ete *ExternalToolError
	assert.True(t, errors.As(err, &ete))
}

func TestNonZeroExitWithoutStderr(t *testing.T) {
	cli, dir := newFakeCLI(t)

	_, err := cli.ListFields(context.Background(), filepath.Join(dir, "silent.pdf"))
	var ete *ExternalToolError
	require.True(t, errors.As(err, &ete))
	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}

func TestTimeout(t *testing.T) {
	cli, dir := newFakeCLI(t)
	cli.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := cli.ListFields(context.Background(), filepath.Join(dir, "slow.pdf"))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestSetFieldsPassesJSONPayload(t *testing.T) {
	cli, dir := newFakeCLI(t)
	dest := filepath.Join(dir, "out.pdf")

	err := cli.SetFields(context.Background(), filepath.Join(dir, "Roster.pdf"), dest, models.AnswerMap{
		"Name":   "Alice",
		"Status": "Yes",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var payload struct {
		Fields []map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, []map[string]string{{"Name": "Alice"}, {"Status": "Yes"}}, payload.Fields)
}

func TestConcat(t *testing.T) {
	cli, dir := newFakeCLI(t)
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("AAA"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("BBB"), 0o644))
	dest := filepath.Join(dir, "merged.pdf")

	require.NoError(t, cli.Concat(context.Background(), []string{a, b}, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "AAABBB", string(data))

	assert.Error(t, cli.Concat(context.Background(), nil, dest))
}

func TestUnknownSubcommand(t *testing.T) {
	cli, _ := newFakeCLI(t)
	_, err := cli.Run(context.Background(), "explode")
	var ete *ExternalToolError
	require.True(t, errors.As(err, &ete))
	assert.Contains(t, ete.Error(), "unknown command explode")
}

func TestEncodeAnswersSorted(t *testing.T) {
	data, err := EncodeAnswers(models.AnswerMap{"b": "2", "a": "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fields":[{"a":"1"},{"b":"2"}]}`, string(data))

	data, err = EncodeAnswers(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fields":[]}`, string(data))
}

func TestNewJarArgs(t *testing.T) {
	c := NewJar("", "/opt/pdfparser.jar")
	assert.Equal(t, "java", c.argv0)
	assert.Equal(t, []string{"-jar", "/opt/pdfparser.jar"}, c.prefix)
	assert.True(t, c.Strict)
}
