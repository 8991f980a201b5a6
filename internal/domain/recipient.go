package domain

import "strings"

// DefaultDisplayName is substituted when a recipient has no usable name.
const DefaultDisplayName = "Friend"

// Recipient is one addressee from an uploaded contact file. Name, Email
// and Phone are optional; any other column survives in Extra as a
// template variable. Records are immutable after parsing and their
// order defines the send order.
type Recipient struct {
	Name  string            `json:"name,omitempty"`
	Email string            `json:"email,omitempty"`
	Phone string            `json:"phone,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// DisplayName resolves the name used for personalization.
func (r Recipient) DisplayName() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return DefaultDisplayName
	}
	return name
}
