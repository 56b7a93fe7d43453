package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

// newBufferedLogger builds a logger from cfg whose console output goes to buf.
func newBufferedLogger(t *testing.T, cfg *LogConfig, buf *bytes.Buffer) *logger.Logger {
	t.Helper()
	opts := append(BuildLoggerOpts(cfg), logger.WithConsoleWriter(buf), logger.WithConsoleColor(false))
	log, err := logger.New(opts...)
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestSetupLogger_NilConfig(t *testing.T) {
	log, err := SetupLogger(nil)
	if err == nil {
		t.Fatal("expected error for nil config")
	}
	if log != nil {
		t.Error("expected nil logger for nil config")
	}
}

func TestSetupLogger_WritesJSONFileAndSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "minimarket.log")
	log, err := SetupLogger(&LogConfig{Level: "info", Format: "json", FilePath: path, Color: boolPtr(false)})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not replace slog.Default()")
	}

	slog.Info("catalog seeded", slog.Int("products", 8))
	if err := log.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"catalog seeded"`) || !strings.Contains(out, `"products":8`) {
		t.Errorf("expected JSON record in log file, got:\n%s", out)
	}
}

func TestBuildLoggerOpts_FormatShapesOutput(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"msg":"product listed"`, `"id":"p-1"`}},
		{" JSON ", []string{`"msg":"product listed"`}},
		{"text", []string{`msg="product listed"`, "id=p-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			log := newBufferedLogger(t, &LogConfig{Level: "info", Format: tt.format}, &buf)

			log.Info("product listed", slog.String("id", "p-1"))

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestBuildLoggerOpts_LevelFiltersOutput(t *testing.T) {
	tests := []struct {
		level   string
		dropped slog.Level
		kept    slog.Level
	}{
		{"debug", slog.LevelDebug - 1, slog.LevelDebug},
		{"info", slog.LevelDebug, slog.LevelInfo},
		{"Warn", slog.LevelInfo, slog.LevelWarn},
		{"error", slog.LevelWarn, slog.LevelError},
		{"verbose", slog.LevelDebug, slog.LevelInfo},
		{"", slog.LevelDebug, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := newBufferedLogger(t, &LogConfig{Level: tt.level, Format: "text"}, &buf)
			ctx := context.Background()

			log.Log(ctx, tt.dropped, "dropped line")
			log.Log(ctx, tt.kept, "kept line")

			out := buf.String()
			if strings.Contains(out, "dropped line") {
				t.Errorf("level %q let a %v record through:\n%s", tt.level, tt.dropped, out)
			}
			if !strings.Contains(out, "kept line") {
				t.Errorf("level %q filtered a %v record:\n%s", tt.level, tt.kept, out)
			}
		})
	}
}

func TestBuildLoggerOpts_AttachesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(t, &LogConfig{Level: "info", Format: "text"}, &buf)

	ctx := logger.WithContextAttrs(context.Background(), slog.String("request_id", "req-42"))
	log.InfoContext(ctx, "list products")

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("expected request_id from context, got:\n%s", buf.String())
	}
}

func TestBuildLoggerOpts_FileOptions(t *testing.T) {
	// Level, context middleware, console format and console color.
	const consoleOnly = 4
	// Plus file path and file format.
	const withFile = consoleOnly + 2

	tests := []struct {
		name string
		cfg  *LogConfig
		want int
	}{
		{"no file path", &LogConfig{Level: "info"}, consoleOnly},
		{"blank file path", &LogConfig{Level: "info", FilePath: "   "}, consoleOnly},
		{"file path only", &LogConfig{FilePath: "var/minimarket.log"}, withFile},
		{
			name: "rotation settings",
			cfg: &LogConfig{
				FilePath: "var/minimarket.log", MaxSizeMB: 20, RetentionDays: 14,
				MaxBackups: 4, CompressRotated: boolPtr(false),
			},
			want: withFile + 4,
		},
		{
			name: "negative rotation values are skipped",
			cfg:  &LogConfig{FilePath: "var/minimarket.log", MaxSizeMB: -1, RetentionDays: -1, MaxBackups: -1},
			want: withFile,
		},
		{
			name: "rotation ignored without file",
			cfg:  &LogConfig{MaxSizeMB: 20, MaxBackups: 4, CompressRotated: boolPtr(true)},
			want: consoleOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildLoggerOpts(tt.cfg)); got != tt.want {
				t.Errorf("option count = %d, want %d", got, tt.want)
			}
		})
	}

	if BuildLoggerOpts(nil) != nil {
		t.Error("expected nil options for nil config")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]logger.OutputFormat{
		"json":    logger.FormatJSON,
		" Text ":  logger.FormatText,
		"":        logger.FormatCustom,
		"console": logger.FormatCustom,
	}
	for in, want := range tests {
		if got := parseFormat(in); got != want {
			t.Errorf("parseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}
