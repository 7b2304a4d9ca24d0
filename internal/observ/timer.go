// Package observ measures how long each phase of a native call takes.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one measured step of a command line: lex, resolve, call, ...
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases for a single command line. Not goroutine-safe;
// the session owns one and resets it per line.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 6), now: time.Now}
}

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End closes the phase at idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
}

// Reset drops all phases.
func (t *Timer) Reset() { t.phases = t.phases[:0] }

// Len returns the number of recorded phases.
func (t *Timer) Len() int { return len(t.phases) }

// Total sums phase durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// Summary renders one line per phase, the foreign call included:
//
//	timings: resolve 0.01ms, signature 0.02ms, call 0.40ms (sin), total 0.43ms
func (t *Timer) Summary() string {
	if len(t.phases) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t.phases)+1)
	for _, p := range t.phases {
		s := fmt.Sprintf("%s %.2fms", p.Name, durationToMillis(p.Dur))
		if p.Note != "" {
			s += " (" + p.Note + ")"
		}
		parts = append(parts, s)
	}
	parts = append(parts, fmt.Sprintf("total %.2fms", durationToMillis(t.Total())))
	return "timings: " + strings.Join(parts, ", ")
}

// PhaseReport is the serializable form of Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	for i, phase := range t.phases {
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(t.Total())
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
