package diag

import "desugar/internal/source"

// Reporter receives diagnostics from passes. BagReporter stores them,
// DedupReporter drops repeats before handing them on.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// Pending is a diagnostic being assembled. Nothing reaches the reporter
// until Emit.
type Pending struct {
	r    Reporter
	d    Diagnostic
	done bool
}

func pending(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{r: r, d: Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return pending(r, SevError, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return pending(r, SevInfo, code, primary, msg)
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	p.d.Notes = append(p.d.Notes, Note{Span: sp, Msg: msg})
	return p
}

// Emit hands the diagnostic over once; later calls do nothing.
func (p *Pending) Emit() {
	if p.done || p.r == nil {
		return
	}
	p.done = true
	p.r.Report(p.d.Code, p.d.Severity, p.d.Primary, p.d.Message, p.d.Notes)
}

// BagReporter stores into Bag and stamps every diagnostic with Pass.
type BagReporter struct {
	Bag  *Bag
	Pass string
}

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Pass:     r.Pass,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}
