package diag

import (
	"math"
	"testing"

	"desugar/internal/source"
)

func TestBagReporterStampsPass(t *testing.T) {
	bag := NewBag(4)
	r := NewDedupReporter(BagReporter{Bag: bag, Pass: "conditional-access"})

	ReportInfo(r, DsgSkippedNoFacts, source.Span{Start: 12, End: 18}, "no type for receiver").Emit()
	ReportInfo(r, DsgSkippedNoFacts, source.Span{Start: 12, End: 18}, "no type for receiver").Emit()
	ReportInfo(r, DsgSkippedImpure, source.Span{Start: 2, End: 3}, "call in subject").
		WithNote(source.Span{Start: 0, End: 1}, "subject starts here").
		Emit()

	if bag.Len() != 2 || r.Suppressed() != 1 {
		t.Fatalf("bag has %d items, %d suppressed; want 2 and 1", bag.Len(), r.Suppressed())
	}
	if bag.HasErrors() {
		t.Fatalf("info diagnostics must not count as errors")
	}
	bag.Sort()
	want := "info DSG9002 conditional-access 0:2-3 call in subject\n" +
		"note DSG9002 conditional-access 0:0-1 subject starts here\n" +
		"info DSG9001 conditional-access 0:12-18 no type for receiver"
	if got := Short(bag.Items(), true); got != want {
		t.Fatalf("unexpected rendering:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	boom := Diagnostic{Severity: SevError, Code: DsgContractViolation, Message: "boom"}
	if !bag.Add(boom) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(boom) {
		t.Fatalf("second add must hit the limit")
	}
	other := NewBag(2)
	other.Add(Diagnostic{Severity: SevWarning, Code: CfgBadValue, Message: "jobs < 0"})
	bag.Merge(other)
	if bag.Len() != 2 || bag.Cap() < 2 {
		t.Fatalf("merge must grow the bag: len=%d cap=%d", bag.Len(), bag.Cap())
	}
	if bag.Dropped() != 1 || bag.Count(SevWarning) != 2 || !bag.HasErrors() {
		t.Fatalf("dropped=%d warnings+=%d", bag.Dropped(), bag.Count(SevWarning))
	}
	if NewBag(0).Cap() != math.MaxUint16 {
		t.Fatalf("zero limit must mean no practical limit")
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		DsgSkippedNoFacts:    "DSG9001",
		DsgContractViolation: "DSG9100",
		IOSchemaMismatch:     "IO4002",
		CfgUnknownPass:       "CFG5001",
		UnknownCode:          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	items := []Diagnostic{
		{Severity: SevInfo, Code: DsgSkippedNoFacts},
		{Severity: SevError, Code: DsgContractViolation},
		{Severity: SevWarning, Code: CfgBadValue},
	}
	tests := []struct {
		min  Severity
		want int
	}{
		{SevInfo, 3},
		{SevWarning, 2},
		{SevError, 1},
	}
	for _, tt := range tests {
		if got := Filter(items, tt.min); len(got) != tt.want {
			t.Errorf("Filter(%s) kept %d, want %d", tt.min, len(got), tt.want)
		}
	}
	if Severity(7).String() != "unknown" {
		t.Errorf("out of range severity must render as unknown")
	}
}
