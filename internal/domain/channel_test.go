package domain

import "testing"

func TestChannelSelectorMatching(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		selector     string
		wantEmail    bool
		wantWhatsApp bool
	}{
		{selector: "email", wantEmail: true, wantWhatsApp: false},
		{selector: "whatsapp", wantEmail: false, wantWhatsApp: true},
		{selector: "email,whatsapp", wantEmail: true, wantWhatsApp: true},
		{selector: "both", wantEmail: true, wantWhatsApp: true},
		{selector: "  EMAIL  ", wantEmail: true, wantWhatsApp: false},
		{selector: "sms", wantEmail: false, wantWhatsApp: false},
		{selector: "", wantEmail: false, wantWhatsApp: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.selector, func(t *testing.T) {
			t.Parallel()

			s := ChannelSelector(tc.selector)
			if got := s.WantsEmail(); got != tc.wantEmail {
				t.Fatalf("WantsEmail() = %v, want %v", got, tc.wantEmail)
			}
			if got := s.WantsWhatsApp(); got != tc.wantWhatsApp {
				t.Fatalf("WantsWhatsApp() = %v, want %v", got, tc.wantWhatsApp)
			}
			if got := s.IsValid(); got != (tc.wantEmail || tc.wantWhatsApp) {
				t.Fatalf("IsValid() = %v, want %v", got, tc.wantEmail || tc.wantWhatsApp)
			}
		})
	}
}
