package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oukeidos/batrans/internal/dataset"
	"github.com/oukeidos/batrans/internal/provider"
	"github.com/oukeidos/batrans/internal/translator"
)

type stubTranslator func(ctx context.Context, text string, index int) (translator.Result, error)

func (f stubTranslator) Translate(ctx context.Context, text string, index int) (translator.Result, error) {
	return f(ctx, text, index)
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	return path
}

// newTestRunner builds a runner whose rate-limit sleep records delays
// instead of waiting.
func newTestRunner(t *testing.T, cfg Config, tr Translator) (*Runner, *[]time.Duration) {
	t.Helper()
	r, err := NewRunner(cfg, tr)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	var delays []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return r, &delays
}

func loadDataset(t *testing.T, path string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("loading %s: %v", path, err)
	}
	return ds
}

func TestRun_TranslatesPendingRowsAndReportsStats(t *testing.T) {
	input := writeInput(t, "summary\nHola mundo\n\"\"\n\"\"\n")
	primary := provider.NewMock("primary", provider.MockResponse{Text: "Hello world"})
	fallback := provider.NewMock("fallback")
	tr := translator.NewFallback(primary, fallback, translator.NewRetrier(5, time.Millisecond))

	r, delays := newTestRunner(t, Config{InputPath: input}, tr)
	stats, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Total != 3 || stats.Successful != 3 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if rate := stats.SuccessRate(); rate != 1 {
		t.Errorf("success rate = %v", rate)
	}
	if primary.Calls() != 1 {
		t.Errorf("empty rows must not reach the provider, calls = %d", primary.Calls())
	}
	if len(*delays) != 3 {
		t.Errorf("expected a rate-limit delay per row, got %d", len(*delays))
	}

	out := loadDataset(t, r.cfg.OutputPath)
	want := []string{"Hello world", "", ""}
	for i, w := range want {
		if got := out.Translated(i); got != w {
			t.Errorf("output row %d = %q, want %q", i, got, w)
		}
	}
}

func TestRun_ResumeDoesNotReprocessCompletedRows(t *testing.T) {
	input := writeInput(t, "summary\nHola\nAdios\n")
	cp := filepath.Join(filepath.Dir(input), "input.checkpoint.csv")
	checkpointed := "summary,translated_summary\nHola,Hello\nAdios,\n"
	if err := os.WriteFile(cp, []byte(checkpointed), 0o644); err != nil {
		t.Fatalf("writing checkpoint: %v", err)
	}

	primary := provider.NewMock("primary", provider.MockResponse{Text: "Goodbye"})
	tr := translator.NewFallback(primary, provider.NewMock("fallback"), translator.NewRetrier(5, time.Millisecond))

	r, _ := newTestRunner(t, Config{InputPath: input, CheckpointPath: cp}, tr)
	stats, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if primary.Calls() != 1 {
		t.Fatalf("resumed row must not be re-translated, calls = %d", primary.Calls())
	}
	if stats.Successful != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	out := loadDataset(t, r.cfg.OutputPath)
	if out.Translated(0) != "Hello" || out.Translated(1) != "Goodbye" {
		t.Fatalf("output rows: %q, %q", out.Translated(0), out.Translated(1))
	}
}

func TestRun_CheckpointTriggersOnIndexZero(t *testing.T) {
	input := writeInput(t, "summary\nuno\ndos\ntres\n")
	tr := stubTranslator(func(ctx context.Context, text string, index int) (translator.Result, error) {
		return translator.Success("X"), nil
	})

	r, _ := newTestRunner(t, Config{InputPath: input, CheckpointInterval: 10}, tr)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Only index 0 satisfies index % 10 == 0, so the surviving checkpoint
	// holds exactly the first row's result.
	cp := loadDataset(t, r.cfg.CheckpointPath)
	if cp.Translated(0) != "X" {
		t.Errorf("checkpoint row 0 = %q", cp.Translated(0))
	}
	for i := 1; i < cp.Len(); i++ {
		if cp.Translated(i) != "" {
			t.Errorf("checkpoint row %d = %q, want empty", i, cp.Translated(i))
		}
	}
}

func TestRun_FailureMarkersCountedInStats(t *testing.T) {
	input := writeInput(t, "summary\nuno\ndos\n")
	tr := stubTranslator(func(ctx context.Context, text string, index int) (translator.Result, error) {
		if index == 0 {
			return translator.Success("one"), nil
		}
		return translator.Failed(translator.FailureExhausted, "both providers down"), nil
	})

	r, _ := newTestRunner(t, Config{InputPath: input}, tr)
	stats, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Total != 2 || stats.Successful != 2 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	out := loadDataset(t, r.cfg.OutputPath)
	if !strings.HasPrefix(out.Translated(1), "Translation failed: ") {
		t.Fatalf("row 1 = %q", out.Translated(1))
	}
}

func TestRun_CancellationSavesCheckpoint(t *testing.T) {
	input := writeInput(t, "summary\nuno\ndos\n")
	tr := stubTranslator(func(ctx context.Context, text string, index int) (translator.Result, error) {
		if index == 0 {
			return translator.Success("one"), nil
		}
		return translator.Result{}, context.Canceled
	})

	r, _ := newTestRunner(t, Config{InputPath: input, CheckpointInterval: 100}, tr)
	stats, err := r.Run(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if stats.Successful != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	cp := loadDataset(t, r.cfg.CheckpointPath)
	if cp.Translated(0) != "one" {
		t.Errorf("checkpoint row 0 = %q", cp.Translated(0))
	}
	if !cp.Pending(1) {
		t.Error("interrupted row must remain pending in the checkpoint")
	}

	if _, err := os.Stat(r.cfg.OutputPath); !os.IsNotExist(err) {
		t.Error("output file must not be written on an interrupted run")
	}
}

func TestRun_TruncatesBeforeTranslating(t *testing.T) {
	input := writeInput(t, "summary\nuno dos tres cuatro cinco seis siete\n")
	var received string
	tr := stubTranslator(func(ctx context.Context, text string, index int) (translator.Result, error) {
		received = text
		return translator.Success("ok"), nil
	})

	r, _ := newTestRunner(t, Config{InputPath: input, TruncateLength: 20}, tr)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len([]rune(received)) > 20 {
		t.Fatalf("provider received untruncated text: %q", received)
	}
	if !strings.HasPrefix(received, "uno dos tres") {
		t.Fatalf("received = %q", received)
	}
}
