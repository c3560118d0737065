package trace

import "time"

type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = []string{"", "begin", "end", "point"}

func (k Kind) String() string { return nameOf(kindNames, int(k)) }

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI invocation
	ScopeTree                    // one input tree through the pipeline
	ScopePass                    // one pass over one tree
	ScopeNode                    // skips and hoists
)

var scopeNames = []string{"", "driver", "tree", "pass", "node"}

func (s Scope) String() string { return nameOf(scopeNames, int(s)) }

// Event is one record handed to the sinks.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the first sink that accepts the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points
	ParentID uint64
	Name     string // "run", "tree:orders", "query", "skip"
	Detail   string
	Elapsed  time.Duration // end events only
	Extra    map[string]string
}
