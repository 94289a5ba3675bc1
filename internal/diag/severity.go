package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevHint is for hint-level diagnostics.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// LSP returns the protocol severity number (1=Error .. 4=Hint).
func (s Severity) LSP() int {
	switch s {
	case SevError:
		return 1
	case SevWarning:
		return 2
	case SevInfo:
		return 3
	case SevHint:
		return 4
	}
	return 2
}

// ParseSeverity resolves a configured severity name.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "error":
		return SevError, nil
	case "warning":
		return SevWarning, nil
	case "info":
		return SevInfo, nil
	case "hint":
		return SevHint, nil
	}
	return SevWarning, fmt.Errorf("unknown severity %q (must be error|warning|info|hint)", name)
}
