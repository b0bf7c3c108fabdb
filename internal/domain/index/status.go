package index

import "strings"

// Status is the lifecycle state of a search index as observed on the store.
type Status int

const (
	// StatusAbsent means the store does not report the index (or reports no status yet).
	StatusAbsent Status = iota
	// StatusBuilding means the build is in progress.
	StatusBuilding
	// StatusReady means the index is queryable. Terminal.
	StatusReady
	// StatusFailed means the build failed. Terminal.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusBuilding:
		return "BUILDING"
	case StatusReady:
		return "READY"
	case StatusFailed:
		return "FAILED"
	default:
		return "ABSENT"
	}
}

// IsTerminal reports whether polling should stop at this status.
func (s Status) IsTerminal() bool {
	return s == StatusReady || s == StatusFailed
}

// ParseStatus maps a store status string to a Status.
// STALE indexes are still queryable. DELETING and unknown values are non-terminal.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "READY", "STALE":
		return StatusReady
	case "FAILED":
		return StatusFailed
	case "", "DOES_NOT_EXIST":
		return StatusAbsent
	default:
		return StatusBuilding
	}
}

// Info is one entry of an index listing.
type Info struct {
	Name      string
	Type      string
	Status    Status
	RawStatus string // as reported by the store, empty when missing
	Queryable bool
}

// DisplayStatus returns the store's status string, or "N/A" when it reported none.
func (i Info) DisplayStatus() string {
	if i.RawStatus == "" {
		return "N/A"
	}
	return i.RawStatus
}
