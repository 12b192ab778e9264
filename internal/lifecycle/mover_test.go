package lifecycle

import (
	"os"
	"path/filepath"
	"testing"

	"hopper/internal/config"
	"hopper/internal/logging"
	"hopper/internal/testsupport"
)

func newTestMover(t *testing.T) (*Mover, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return NewMover(cfg, logging.NewNop()), cfg
}

func seedItem(t *testing.T, cfg *config.Config, relDir string) Item {
	t.Helper()
	item := Item{
		OptionKey: "quality/720p",
		RelDir:    relDir,
		Filename:  "movie.mp4",
	}
	item.SourcePath = filepath.Join(cfg.OptionDir(item.OptionKey), cfg.InputSubdir, relDir, item.Filename)
	if err := os.MkdirAll(filepath.Dir(item.SourcePath), 0o755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}
	if err := os.WriteFile(item.SourcePath, []byte("original"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return item
}

func TestCommitSuccessMovesOutputAndOriginal(t *testing.T) {
	mover, cfg := newTestMover(t)
	item := seedItem(t, cfg, "")

	workPath := mover.WorkPath(item)
	if err := os.WriteFile(workPath, []byte("transcoded"), 0o644); err != nil {
		t.Fatalf("write work output: %v", err)
	}
	if err := os.WriteFile(workPath+".log", []byte("tool log"), 0o644); err != nil {
		t.Fatalf("write work log: %v", err)
	}

	if err := mover.CommitSuccess(item); err != nil {
		t.Fatalf("commit success: %v", err)
	}

	outputPath := filepath.Join(cfg.OptionDir("quality/720p"), "output", "movie.mkv")
	if got, err := os.ReadFile(outputPath); err != nil || string(got) != "transcoded" {
		t.Fatalf("expected output at %s, got %q err=%v", outputPath, got, err)
	}
	if _, err := os.Stat(outputPath + ".log"); err != nil {
		t.Fatalf("expected tool log alongside output: %v", err)
	}
	originalPath := filepath.Join(cfg.OptionDir("quality/720p"), "originals", "movie.mp4")
	if got, err := os.ReadFile(originalPath); err != nil || string(got) != "original" {
		t.Fatalf("expected original at %s, got %q err=%v", originalPath, got, err)
	}
	if _, err := os.Stat(item.SourcePath); !os.IsNotExist(err) {
		t.Fatalf("expected source gone from input, err=%v", err)
	}
	if _, err := os.Stat(workPath); !os.IsNotExist(err) {
		t.Fatalf("expected work output gone, err=%v", err)
	}
}

func TestCommitSuccessPreservesRelativePath(t *testing.T) {
	mover, cfg := newTestMover(t)
	item := seedItem(t, cfg, "season-1")

	if err := os.WriteFile(mover.WorkPath(item), []byte("transcoded"), 0o644); err != nil {
		t.Fatalf("write work output: %v", err)
	}
	if err := mover.CommitSuccess(item); err != nil {
		t.Fatalf("commit success: %v", err)
	}

	outputPath := filepath.Join(cfg.OptionDir("quality/720p"), "output", "season-1", "movie.mkv")
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("expected nested output: %v", err)
	}
	originalPath := filepath.Join(cfg.OptionDir("quality/720p"), "originals", "season-1", "movie.mp4")
	if _, err := os.Stat(originalPath); err != nil {
		t.Fatalf("expected nested original: %v", err)
	}
}

func TestCommitFailureRoutesOriginalOnly(t *testing.T) {
	mover, cfg := newTestMover(t)
	item := seedItem(t, cfg, "")

	if err := mover.CommitFailure(item); err != nil {
		t.Fatalf("commit failure: %v", err)
	}

	failedPath := filepath.Join(cfg.OptionDir("quality/720p"), "failed", "movie.mp4")
	if got, err := os.ReadFile(failedPath); err != nil || string(got) != "original" {
		t.Fatalf("expected original in failed dir, got %q err=%v", got, err)
	}
	outputDir := filepath.Join(cfg.OptionDir("quality/720p"), "output")
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output dir on failure, got %d entries", len(entries))
	}
}

func TestFileToOutputKeepsName(t *testing.T) {
	mover, cfg := newTestMover(t)
	item := seedItem(t, cfg, "")
	item.Filename = "notes.txt"
	item.SourcePath = filepath.Join(cfg.OptionDir(item.OptionKey), cfg.InputSubdir, item.Filename)
	if err := os.WriteFile(item.SourcePath, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := mover.FileToOutput(item); err != nil {
		t.Fatalf("file to output: %v", err)
	}
	dst := filepath.Join(cfg.OptionDir("quality/720p"), "output", "notes.txt")
	if got, err := os.ReadFile(dst); err != nil || string(got) != "plain text" {
		t.Fatalf("expected untouched file at %s, got %q err=%v", dst, got, err)
	}
}

func TestOutputNameSwapsExtension(t *testing.T) {
	item := Item{Filename: "clip.avi"}
	if got := item.OutputName(".mkv"); got != "clip.mkv" {
		t.Fatalf("expected clip.mkv, got %q", got)
	}
}
