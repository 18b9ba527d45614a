// Package protocol defines the structured messages the plugin emits on its
// output stream and a writer that serializes them one per line. The host
// reads the stream line-by-line while the job runs, so every message is a
// self-contained JSON object carrying the protocol version marker.
//
// A message carries exactly one of: a progress fraction, a data payload, a
// list of produced files, or a terminal status (code plus description).
// Success and Error are terminal: at most one of them is emitted per run,
// and it is always the last message.
package protocol

// Version identifies the protocol revision understood by the host.
const Version = "1"

// SuccessCode is the terminal status code reported for a successful run.
const SuccessCode = 0

// Message is a single protocol message. Only the fields for one variant
// are populated; the Version marker is set by the constructors.
type Message struct {
	Version string `json:"jobProtocol"`

	// Progress is an advisory completion fraction in [0,1].
	Progress *float64 `json:"progress,omitempty"`

	// Data carries an arbitrary payload mapping.
	Data map[string]any `json:"data,omitempty"`

	// Files lists absolute paths of artifacts produced by this run.
	Files []string `json:"files,omitempty"`

	// Code and Description form the terminal status. Code 0 means success;
	// any other value is an error code.
	Code        *int   `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Terminal reports whether the message ends the job's observable lifecycle.
func (m Message) Terminal() bool { return m.Code != nil }

// NewProgress builds a progress message. Values are advisory; consumers
// rely only on monotonic non-decrease.
func NewProgress(v float64) Message {
	return Message{Version: Version, Progress: &v}
}

// NewData builds a data message carrying the given payload.
func NewData(payload map[string]any) Message {
	return Message{Version: Version, Data: payload}
}

// NewFiles builds a files message listing produced artifacts.
func NewFiles(paths []string) Message {
	return Message{Version: Version, Files: paths}
}

// NewSuccess builds the terminal success message.
func NewSuccess(description string) Message {
	code := SuccessCode
	return Message{Version: Version, Code: &code, Description: description}
}

// NewError builds a terminal error message with the given protocol code.
func NewError(code int, description string) Message {
	return Message{Version: Version, Code: &code, Description: description}
}
