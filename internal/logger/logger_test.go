package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "urdf.log")

	// lumberjack sizes are whole megabytes, so write a little over two.
	require.NoError(t, InitWithFileConfig("debug", FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
	}, false))
	defer SetLogger(nil)

	payload := strings.Repeat("q", 200)
	for i := 0; i < 12000; i++ {
		L("trajectory").Debug("sample", zap.Int("i", i), zap.String("p", payload))
	}
	Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var rotated []string
	for _, e := range entries {
		if e.Name() != "urdf.log" && strings.HasPrefix(e.Name(), "urdf-") {
			rotated = append(rotated, e.Name())
		}
	}
	assert.FileExists(t, logFile)
	require.NotEmpty(t, rotated, "expected at least one rotated file")
	for _, name := range rotated {
		assert.Contains(t, name, "-20", "rotated file %s should carry a timestamp", name)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  []string
		skip  []string
	}{
		{level: "error", want: []string{"ERROR"}, skip: []string{"WARN", "INFO", "DEBUG"}},
		{level: "warning", want: []string{"ERROR", "WARN"}, skip: []string{"INFO", "DEBUG"}},
		{level: "", want: []string{"ERROR", "WARN", "INFO"}, skip: []string{"DEBUG"}},
		{level: "TRACE", want: []string{"ERROR", "WARN", "INFO", "DEBUG"}},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), "levels.log")
			require.NoError(t, InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, false))
			defer SetLogger(nil)

			Debug("joint detail")
			Info("model loaded")
			Warn("dangling joint")
			Error("parse failed")
			Sync()

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(content), w)
			}
			for _, s := range tt.skip {
				assert.NotContains(t, string(content), s)
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 5 {
		t.Errorf("expected MaxBackups 5, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	L("urdf").Debug("parsed", zap.Int("links", 3))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "urdf" {
		t.Errorf("expected logger name urdf, got %q", entries[0].LoggerName)
	}
	if got := entries[0].ContextMap()["links"]; got != int64(3) {
		t.Errorf("expected links=3, got %v", got)
	}
}

func TestNopBeforeInit(t *testing.T) {
	SetLogger(nil)
	// Must not panic without Init.
	Debug("ignored")
	L("kinematics").Warn("ignored")
	Sync()
}

func TestFileNameInOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "component.log")
	cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
	if err := InitWithFileConfig("info", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer SetLogger(nil)

	L("trajectory").Info("sampled")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "trajectory") {
		t.Errorf("expected component name in output, got %q", content)
	}
}

func TestComponentLevels(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "levels.log")
	err := Setup(Options{
		Level:      "warn",
		File:       FileConfig{Path: logFile, MaxSizeMB: 1},
		Components: map[string]string{"urdf": "debug", "trajectory": "error"},
	})
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer SetLogger(nil)

	L("urdf").Debug("parser detail")
	L("urdf").Named("expr").Debug("nested detail")
	L("trajectory").Warn("sampler warning")
	L("stream").Info("stream info")
	L("stream").Warn("stream warning")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(content)
	for _, want := range []string{"parser detail", "nested detail", "stream warning"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	for _, unwanted := range []string{"sampler warning", "stream info"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("unexpected %q in output", unwanted)
		}
	}
}
