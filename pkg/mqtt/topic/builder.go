package topic

import (
	"fmt"
)

// Topic segments published by platecheck. Consumers subscribe to these, so
// changing a value is a breaking change.
const (
	// SuffixLookup carries one event per completed lookup.
	// Structure: {root}/lookup/{registration}
	SuffixLookup = "lookup"

	// SuffixTierChanged carries subscription tier changes.
	// Structure: {root}/tier/changed
	SuffixTierChanged = "tier/changed"

	// SuffixStatus carries the retained online/offline status of a publisher.
	// Structure: {root}/status/{clientID}
	SuffixStatus = "status"
)

// Standard MQTT wildcards.
const (
	Wildcard      = "+"
	MultiWildcard = "#"
)

// TopicBuilder constructs topic strings under a fixed root namespace.
type TopicBuilder struct {
	// root is the base namespace for all topics (e.g., "platecheck/v1").
	root string
}

// NewTopicBuilder creates a new instance of TopicBuilder with the specified root namespace.
func NewTopicBuilder(root string) *TopicBuilder {
	return &TopicBuilder{root: root}
}

// Lookup returns the topic for events about one registration.
func (b *TopicBuilder) Lookup(registration string) string {
	return b.build(SuffixLookup, registration)
}

// LookupWildcard matches lookup events for every registration.
func (b *TopicBuilder) LookupWildcard() string {
	return b.build(SuffixLookup, Wildcard)
}

// TierChanged returns the topic for tier change events.
func (b *TopicBuilder) TierChanged() string {
	return fmt.Sprintf("%s/%s", b.root, SuffixTierChanged)
}

// Status returns the retained status topic for a publisher.
func (b *TopicBuilder) Status(clientID string) string {
	return b.build(SuffixStatus, clientID)
}

// build is a private helper to construct the final topic string.
// Pattern: {root}/{suffix}/{identifier}
func (b *TopicBuilder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
