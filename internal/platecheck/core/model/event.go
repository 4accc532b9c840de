package model

import "time"

type LookupOutcome string

const (
	OutcomeResolved   LookupOutcome = "resolved"
	OutcomeFailed     LookupOutcome = "failed"
	OutcomeSuperseded LookupOutcome = "superseded"
)

// LookupEvent summarises one lookup for downstream consumers. It never carries report data.
type LookupEvent struct {
	ID           string        `json:"id"`
	Registration string        `json:"registration"`
	Tier         Tier          `json:"tier"`
	Source       Source        `json:"source,omitempty"`
	Outcome      LookupOutcome `json:"outcome"`
	ErrorKind    ErrorKind     `json:"errorKind,omitempty"`
	DurationMS   int64         `json:"durationMs"`
	At           time.Time     `json:"at"`
}

type TierChange struct {
	Previous Tier      `json:"previous"`
	Current  Tier      `json:"current"`
	At       time.Time `json:"at"`
}
