package transfer

import "time"

type Credits struct {
	Daily    int       `json:"daily"`
	Used     int       `json:"used"`
	Left     int       `json:"left"`
	ResetsAt time.Time `json:"resetsAt"`
	RetryIn  string    `json:"retryIn,omitempty"`
}
