package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopeTree, true},
		{LevelPhase, ScopePass, false},
		{LevelDetail, ScopePass, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)

	run := Begin(FromContext(ctx), ScopeDriver, "run", 0)
	pass := Begin(FromContext(ctx), ScopePass, "query", run.ID())
	Point(FromContext(ctx), ScopeNode, "skip", "no facts", pass.ID())
	pass.WithExtra("changed", "true").End("")
	run.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4 (node point filtered):\n%s", len(lines), buf.String())
	}
	var last struct {
		Kind   string `json:"kind"`
		Scope  string `json:"scope"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(lines[3]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if last.Kind != "end" || last.Scope != "driver" || last.Name != "run" || last.Detail != "ok" {
		t.Fatalf("unexpected last event: %+v", last)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "c") {
		t.Fatalf("dump misses events: %q", buf.String())
	}
}

func TestNopWhenOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	if s := Begin(tr, ScopeDriver, "run", 0); s.ID() != 0 {
		t.Fatalf("nop span must have no id")
	}
}

func TestStartNestsThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	ctx, run := Start(ctx, ScopeDriver, "run")
	treeCtx, tree := Start(ctx, ScopeTree, "tree:a")
	if CurrentSpan(treeCtx) != tree.ID() || CurrentSpan(ctx) != run.ID() {
		t.Fatalf("context does not carry the innermost span")
	}
	// node scope is below LevelDetail: ctx is returned unchanged
	nodeCtx, node := Start(treeCtx, ScopeNode, "skip")
	if node.ID() != 0 || CurrentSpan(nodeCtx) != tree.ID() {
		t.Fatalf("filtered span must be inert and keep the parent current")
	}
	tree.End("")
	run.End("")

	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].Name != "tree:a" || snap[1].ParentID != run.ID() {
		t.Fatalf("tree span parent = %d, want %d", snap[1].ParentID, run.ID())
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Seq <= snap[i-1].Seq {
			t.Fatalf("sequence numbers are not increasing: %+v", snap)
		}
	}
}

func TestParseOptions(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil || !strings.Contains(err.Error(), "off|error|phase|detail|debug") {
		t.Fatalf("ParseLevel(loud) error = %v", err)
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode(""); err == nil {
		t.Fatalf("empty mode must be rejected")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, _ := ParseFormat(""); f != FormatAuto {
		t.Fatalf("empty format must mean auto")
	}
}

func TestBothModeKeepsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeTree, "tree:a", 0).End("")
	ring, ok := Ring(tr)
	if !ok {
		t.Fatalf("both mode has no ring")
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[1].Kind != KindSpanEnd {
		t.Fatalf("ring = %+v", snap)
	}
	// один номер на событие в обоих приёмниках
	if !strings.Contains(buf.String(), "← tree:a") || snap[0].Seq == 0 {
		t.Fatalf("stream output %q", buf.String())
	}
	if _, ok := Ring(Nop); ok {
		t.Fatalf("nop has no ring")
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
