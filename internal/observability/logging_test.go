package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWithResolutionID(t *testing.T) {
	ctx := WithResolutionID(context.Background(), "res-123")

	if lc := GetContext(ctx); lc.ResolutionID != "res-123" {
		t.Errorf("expected res-123, got %s", lc.ResolutionID)
	}
}

func TestStartResolution(t *testing.T) {
	ctx, id := StartResolution(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a uuid, got %q: %v", id, err)
	}
	if GetContext(ctx).ResolutionID != id {
		t.Error("context should carry the new resolution id")
	}

	again, id2 := StartResolution(ctx)
	if id2 != id || GetContext(again).ResolutionID != id {
		t.Error("an existing resolution id should be kept")
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithResolutionID(ctx, "r1")
	ctx = WithStage(ctx, "develop")
	ctx = WithDirectory(ctx, "/site")

	lc := GetContext(ctx)
	if lc.ResolutionID != "r1" || lc.Stage != "develop" || lc.Directory != "/site" {
		t.Errorf("unexpected log context %+v", lc)
	}
	if got := len(Attrs(ctx)); got != 3 {
		t.Errorf("expected 3 attrs, got %d", got)
	}
}

func TestAttrsEmptyContext(t *testing.T) {
	if got := Attrs(context.Background()); len(got) != 0 {
		t.Errorf("expected no attrs, got %v", got)
	}
}

func TestLoggerAddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithStage(WithResolutionID(context.Background(), "r9"), "build-html")
	Logger(ctx, base).Info("resolved")

	out := buf.String()
	if !strings.Contains(out, "resolution_id=r9") || !strings.Contains(out, "stage=build-html") {
		t.Errorf("expected context attrs in %q", out)
	}
}

func TestLoggerWithoutContextReturnsBase(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if Logger(context.Background(), base) != base {
		t.Error("expected base logger when ctx carries nothing")
	}
	if Logger(context.Background(), nil) != slog.Default() {
		t.Error("expected default logger for nil base")
	}
}
