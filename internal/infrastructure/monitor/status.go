package monitor

import "time"

// ComponentStatus is the outcome of the latest probe of one dependency.
type ComponentStatus struct {
	Online   bool   `json:"online"`
	Required bool   `json:"required"`
	Latency  string `json:"latency"`
	Error    string `json:"error,omitempty"`
}

type Status struct {
	Healthy    bool                       `json:"healthy"`
	Components map[string]ComponentStatus `json:"components"`
	LastCheck  time.Time                  `json:"lastCheck"`
}
