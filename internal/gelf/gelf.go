package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

const (
	LevelError   = 3
	LevelWarning = 4
	LevelInfo    = 6
	LevelDebug   = 7
)

// Writer sends GELF messages over UDP and implements io.Writer
// so it can be used with log.SetOutput via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}
	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

// Write sends one GELF message per call. The date prefix written by the
// standard log package is stripped from short_message.
func (w *Writer) Write(p []byte) (int, error) {
	short := StripLogPrefix(strings.TrimRight(string(p), "\n"))

	msg := map[string]interface{}{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         Level(short),
		"_service":      w.service,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil
	}

	// Fire-and-forget
	_, _ = w.conn.Write(payload)
	return len(p), nil
}

// StripLogPrefix removes a leading "2006/01/02 15:04:05 " timestamp.
func StripLogPrefix(msg string) string {
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		return msg[20:]
	}
	return msg
}

// Level maps the conventional message prefixes used across the service to a
// syslog severity.
func Level(short string) int {
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal") || strings.HasPrefix(short, "Error:"):
		return LevelError
	case strings.HasPrefix(short, "Warning:"):
		return LevelWarning
	case strings.HasPrefix(short, "Debug:"):
		return LevelDebug
	default:
		return LevelInfo
	}
}
