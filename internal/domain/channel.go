package domain

import "strings"

// Channel represents a delivery medium.
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelWhatsApp Channel = "WHATSAPP"
)

func (c Channel) String() string { return string(c) }

// ChannelSelector is the raw channel expression from a submission, e.g.
// "email", "whatsapp" or "email,whatsapp". Matching is substring
// containment rather than a strict enumeration; the literal "both"
// selects both channels.
type ChannelSelector string

func (s ChannelSelector) normalized() string {
	return strings.ToLower(strings.TrimSpace(string(s)))
}

func (s ChannelSelector) WantsEmail() bool {
	v := s.normalized()
	return strings.Contains(v, "email") || strings.Contains(v, "both")
}

func (s ChannelSelector) WantsWhatsApp() bool {
	v := s.normalized()
	return strings.Contains(v, "whatsapp") || strings.Contains(v, "both")
}

// IsValid reports whether the selector implies at least one channel.
func (s ChannelSelector) IsValid() bool {
	return s.WantsEmail() || s.WantsWhatsApp()
}
