package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower is coarser.
type Scope uint8

const (
	ScopeSession Scope = iota + 1
	ScopeCommand
	ScopePhase
	ScopeNative
)

func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopeCommand:
		return "command"
	case ScopePhase:
		return "phase"
	case ScopeNative:
		return "native"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корневых
	Depth    int
	Name     string            // "command", "resolve", "call", ...
	Detail   string            // e.g. "strlen@libc.so.6"
	Elapsed  time.Duration     // only on KindSpanEnd
	Extra    map[string]string // session id, signature, ...
}
