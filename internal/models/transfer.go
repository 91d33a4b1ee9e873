package models

import "time"

// TransferStrategy identifies how a transfer moves bytes to the user
type TransferStrategy string

const (
	// StrategyStreamed fetches the bytes itself and can measure progress
	StrategyStreamed TransferStrategy = "streamed"
	// StrategyDirectFallback hands the URL to a native downloader and can only simulate progress
	StrategyDirectFallback TransferStrategy = "direct-fallback"
)

// TransferState is the lifecycle state of a TransferTask
type TransferState int

const (
	TransferPending TransferState = iota
	TransferRunning
	TransferSucceeded
	TransferFailed
)

// String returns the string representation of the state
func (s TransferState) String() string {
	switch s {
	case TransferPending:
		return "pending"
	case TransferRunning:
		return "running"
	case TransferSucceeded:
		return "succeeded"
	case TransferFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions can happen
func (s TransferState) IsTerminal() bool {
	return s == TransferSucceeded || s == TransferFailed
}

// MarshalJSON implements json.Marshaler interface
func (s TransferState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// TransferTask is one in-flight or finished download. It is owned by the caller that started it.
type TransferTask struct {
	ID           string           `json:"id"`
	SourceURL    string           `json:"sourceUrl"`
	Filename     string           `json:"filename"`
	Strategy     TransferStrategy `json:"strategy"`
	State        TransferState    `json:"state"`
	Path         string           `json:"path,omitempty"` // local file, streamed strategy only
	ContentType  string           `json:"contentType,omitempty"`
	BytesWritten int64            `json:"bytesWritten"`
	StartedAt    time.Time        `json:"startedAt"`
	FinishedAt   time.Time        `json:"finishedAt"`
	Err          error            `json:"-"`
}

// Progress is a single progress report of a transfer
type Progress struct {
	Percent  int              `json:"percent"`
	Exact    bool             `json:"exact"` // false when the value is a simulated estimate
	Strategy TransferStrategy `json:"strategy"`
}

// ProgressFunc receives progress reports of one transfer
type ProgressFunc func(Progress)

// Handoff tells a remote caller to fetch URL itself and save it as Filename
type Handoff struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// TransferEvent is one item of a download stream; exactly one field is set
type TransferEvent struct {
	Progress *Progress     `json:"progress,omitempty"`
	Handoff  *Handoff      `json:"handoff,omitempty"`
	Task     *TransferTask `json:"task,omitempty"`
}
