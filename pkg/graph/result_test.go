package graph

import (
	"strings"
	"testing"
)

func TestResultSet_ContextPreservesOrderAndDropsNulls(t *testing.T) {
	rs := ResultSet{
		{
			Keys:   []string{"h.hasName", "h.id", "h.hasBreed"},
			Values: map[string]any{"h.hasName": "Dakota", "h.id": "Horse1", "h.hasBreed": nil},
		},
		{
			Keys:   []string{"h.hasName", "h.id", "h.hasBreed"},
			Values: map[string]any{"h.hasName": "Naya", "h.id": "Horse2", "h.hasBreed": "Selle Français"},
		},
	}

	out := rs.Context(0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "h.hasName: Dakota | h.id: Horse1" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Selle Français") {
		t.Fatalf("second line missing property: %q", lines[1])
	}
	if strings.Contains(out, "hasBreed: <nil>") || strings.Contains(lines[0], "hasBreed") {
		t.Fatalf("null value leaked into context: %q", out)
	}
}

func TestResultSet_ContextEmpty(t *testing.T) {
	if got := (ResultSet{}).Context(1000); got != "" {
		t.Fatalf("empty result set must render empty context, got %q", got)
	}
}

func TestResultSet_ContextBounded(t *testing.T) {
	rs := make(ResultSet, 50)
	for i := range rs {
		rs[i] = Record{
			Keys:   []string{"s.id"},
			Values: map[string]any{"s.id": strings.Repeat("x", 200)},
		}
	}

	out := rs.Context(100)
	if !strings.Contains(out, "omises") {
		t.Fatalf("expected truncation notice, got %q", out[:80])
	}
	full := rs.Context(0)
	if len(out) >= len(full) {
		t.Fatal("bounded context must be shorter than unbounded")
	}
	// The first record always survives, even when it alone exceeds the
	// budget.
	if !strings.HasPrefix(out, "s.id: ") {
		t.Fatalf("first record missing: %q", out[:40])
	}
}

func TestFormatValue_Collections(t *testing.T) {
	got := formatValue([]any{"IMU_Withers_01", nil, "IMU_Sternum_01"})
	if got != "[IMU_Withers_01, IMU_Sternum_01]" {
		t.Fatalf("unexpected list rendering: %q", got)
	}

	got = formatValue(map[string]any{"id": "Horse1", "hasName": "Dakota", "hasBreed": nil})
	if got != "{hasName=Dakota, id=Horse1}" {
		t.Fatalf("unexpected map rendering: %q", got)
	}
}

func TestFormatValue_Scalars(t *testing.T) {
	if got := formatValue(int64(3)); got != "3" {
		t.Fatalf("int rendering: %q", got)
	}
	if got := formatValue("200Hz"); got != "200Hz" {
		t.Fatalf("string rendering: %q", got)
	}
}
