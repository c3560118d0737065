package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration of one pass over one tree.
type Phase struct {
	Name    string
	Start   time.Time
	Dur     time.Duration
	Changed bool // pass produced a different root
	Note    string
}

// Timer tracks the passes applied to a single tree. It is not goroutine-safe:
// the pipeline owns one timer per tree.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 12)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, changed bool, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Changed = changed
	p.Note = note
}

// Phases returns the recorded phases in order.
func (t *Timer) Phases() []Phase {
	return t.phases
}

// PhaseReport представляет сжатую информацию о проходе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	Changed    int     `json:"changed"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные одного или нескольких таймеров.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	return Aggregate(t)
}

// Aggregate sums phases of the same name across timers, keeping first-seen order.
func Aggregate(timers ...*Timer) Report {
	var report Report
	index := make(map[string]int)
	var total time.Duration
	for _, t := range timers {
		if t == nil {
			continue
		}
		for _, phase := range t.phases {
			total += phase.Dur
			i, ok := index[phase.Name]
			if !ok {
				i = len(report.Phases)
				index[phase.Name] = i
				report.Phases = append(report.Phases, PhaseReport{Name: phase.Name})
			}
			pr := &report.Phases[i]
			pr.Runs++
			if phase.Changed {
				pr.Changed++
			}
			pr.DurationMS += durationToMillis(phase.Dur)
			if phase.Note != "" {
				pr.Note = phase.Note
			}
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders a report as an aligned table.
func (r Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms  %d/%d changed", p.Name, p.DurationMS, p.Changed, p.Runs)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
