package trace

import (
	"fmt"
	"strings"
)

// Level controls which scopes reach the sinks.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // reserved for crash dumps, no spans
	LevelPhase        // driver and tree spans
	LevelDetail       // pass spans too
	LevelDebug        // node points too
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

// deepest scope every level lets through
var levelDepth = [...]Scope{
	LevelPhase:  ScopeTree,
	LevelDetail: ScopePass,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string { return nameOf(levelNames, int(l)) }

func ParseLevel(s string) (Level, error) {
	i, err := parseName("trace level", levelNames, s)
	return Level(i), err
}

// ShouldEmit reports whether events of scope pass the level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelDepth) && scope != 0 && scope <= levelDepth[l]
}

// StorageMode selects the sinks New builds.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write every event as it happens
	ModeRing                          // keep the last events, dump them on failure
	ModeBoth
)

var modeNames = []string{"", "stream", "ring", "both"}

func (m StorageMode) String() string { return nameOf(modeNames, int(m)) }

func ParseMode(s string) (StorageMode, error) {
	i, err := parseName("storage mode", modeNames, s)
	return StorageMode(i), err
}

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota // by output extension: .json/.ndjson or text
	FormatText
	FormatNDJSON
)

var formatNames = []string{"auto", "text", "ndjson"}

func (f Format) String() string { return nameOf(formatNames, int(f)) }

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatNDJSON, nil
	}
	i, err := parseName("trace format", formatNames, s)
	return Format(i), err
}

func formatFor(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

func nameOf(names []string, i int) string {
	if i >= 0 && i < len(names) && names[i] != "" {
		return names[i]
	}
	return "unknown"
}

func parseName(what string, names []string, s string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	valid := make([]string, 0, len(names))
	for i, n := range names {
		if n == "" {
			continue
		}
		if n == key {
			return i, nil
		}
		valid = append(valid, n)
	}
	return 0, fmt.Errorf("invalid %s: %q (expected: %s)", what, s, strings.Join(valid, "|"))
}
