package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/parisxmas/rosterfill/internal/service"
)

const (
	DefaultAddr           = "127.0.0.1:5000"
	DefaultParserPath     = "pdfparser.jar"
	DefaultRosterTemplate = "2020 Guidelines BLS Course Roster_ucm_506772_unlocked (1)"
	DefaultLogLevel       = "info"
	DefaultMaxBody        = 12 << 20
)

type Config struct {
	HTTPAddr     string
	PDFDirectory string
	ScratchDir   string

	// External tool
	ParserPath   string
	JavaBin      string
	ToolTimeout  time.Duration
	StrictStderr bool

	Variant        string
	RosterTemplate string
	MergeBackend   string
	FieldMapPath   string

	LogLevel string
	GelfAddr string
	MaxBody  int64
}

func Default() *Config {
	return &Config{
		HTTPAddr:       DefaultAddr,
		PDFDirectory:   ".",
		ScratchDir:     filepath.Join(os.TempDir(), "rosterfill"),
		ParserPath:     DefaultParserPath,
		JavaBin:        "java",
		StrictStderr:   true,
		Variant:        service.VariantRoster,
		RosterTemplate: DefaultRosterTemplate,
		MergeBackend:   service.MergeTool,
		LogLevel:       DefaultLogLevel,
		MaxBody:        DefaultMaxBody,
	}
}

// Load reads configuration from an optional .env file, ROSTER_* environment
// variables (PDFPARSER_PATH for the jar) and command line flags, in
// increasing order of precedence.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	v := viper.New()
	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("pdfparser_path", "PDFPARSER_PATH"); err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("rosterfill", pflag.ContinueOnError)
	fs.String("addr", cfg.HTTPAddr, "HTTP listen address")
	fs.String("dir", cfg.PDFDirectory, "Directory holding PDF templates and merged output")
	fs.String("scratch", cfg.ScratchDir, "Directory for per-submission intermediate files")
	fs.String("pdfparser_path", cfg.ParserPath, "Path to pdfparser.jar")
	fs.String("java", cfg.JavaBin, "Java executable used to run the jar")
	fs.Duration("tool_timeout", cfg.ToolTimeout, "Limit for one tool invocation (0 = none)")
	fs.Bool("strict_stderr", cfg.StrictStderr, "Fail tool calls that print anything on stderr")
	fs.String("variant", cfg.Variant, "Application variant: 'roster' or 'single'")
	fs.String("roster_template", cfg.RosterTemplate, "Template filled once per submission in the roster variant")
	fs.String("merge_backend", cfg.MergeBackend, "Merge backend: 'tool' or 'pdfcpu'")
	fs.String("field_map", cfg.FieldMapPath, "YAML file extending the form field name table")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("gelf_addr", cfg.GelfAddr, "GELF UDP address, empty to disable")
	fs.Int64("max_body", cfg.MaxBody, "Maximum request body size in bytes")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	cfg.HTTPAddr = v.GetString("addr")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.ScratchDir = v.GetString("scratch")
	cfg.ParserPath = v.GetString("pdfparser_path")
	cfg.JavaBin = v.GetString("java")
	cfg.ToolTimeout = v.GetDuration("tool_timeout")
	cfg.StrictStderr = v.GetBool("strict_stderr")
	cfg.Variant = v.GetString("variant")
	cfg.RosterTemplate = v.GetString("roster_template")
	cfg.MergeBackend = v.GetString("merge_backend")
	cfg.FieldMapPath = v.GetString("field_map")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.GelfAddr = v.GetString("gelf_addr")
	cfg.MaxBody = v.GetInt64("max_body")

	if abs, err := filepath.Abs(cfg.PDFDirectory); err == nil {
		cfg.PDFDirectory = abs
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks enum values and prepares the scratch directory.
func (c *Config) Validate() error {
	if c.Variant != service.VariantRoster && c.Variant != service.VariantSingle {
		return fmt.Errorf("variant must be %q or %q", service.VariantRoster, service.VariantSingle)
	}
	if c.Variant == service.VariantRoster && strings.TrimSpace(c.RosterTemplate) == "" {
		return errors.New("roster variant needs a roster template")
	}
	if c.MergeBackend != service.MergeTool && c.MergeBackend != service.MergePDFCPU {
		return fmt.Errorf("merge backend must be %q or %q", service.MergeTool, service.MergePDFCPU)
	}
	if c.ParserPath == "" {
		return errors.New("pdfparser path cannot be empty")
	}
	if c.ToolTimeout < 0 {
		return errors.New("tool timeout cannot be negative")
	}
	if c.MaxBody <= 0 {
		return errors.New("max body size must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	info, err := os.Stat(c.PDFDirectory)
	if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("PDF directory %s is not a directory", c.PDFDirectory)
	}
	if err := os.MkdirAll(c.ScratchDir, 0o750); err != nil {
		return fmt.Errorf("cannot create scratch directory %s: %w", c.ScratchDir, err)
	}
	return nil
}

func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, Dir: %s, Scratch: %s, Parser: %s, Variant: %s, Merge: %s, LogLevel: %s}",
		c.HTTPAddr, c.PDFDirectory, c.ScratchDir, c.ParserPath, c.Variant, c.MergeBackend, c.LogLevel)
}
