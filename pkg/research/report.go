package research

import "time"

// Report is a finished research report. ID is assigned when the report is
// persisted, not by the assistant.
type Report struct {
	ID        string    `json:"id,omitempty"`
	Topic     string    `json:"topic"`
	Report    string    `json:"report"`
	Model     string    `json:"model,omitempty"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
