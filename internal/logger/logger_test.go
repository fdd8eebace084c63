package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{
		Dir:      tmpDir,
		Filename: "release.log",
	})
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestSugarHelpersWithoutInit(t *testing.T) {
	prev := L
	L = nil
	t.Cleanup(func() { L = prev })

	// 未初始化时走兜底 logger，不 panic
	Infow("fallback_smoke", "key", "value")
	if Z() == nil || S() == nil {
		t.Fatalf("expected fallback logger instances")
	}
}
