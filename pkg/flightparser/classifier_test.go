package flightparser

import "testing"

func TestIsBookingConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "Booking confirmation subject",
			text:     "Your booking confirmation – BA456",
			expected: true,
		},
		{
			name:     "E-ticket receipt",
			text:     "Your E-Ticket is attached",
			expected: true,
		},
		{
			name:     "PNR mention is enough",
			text:     "PNR: XK72LM",
			expected: true,
		},
		{
			name:     "Check-in reminder with airports",
			text:     "Check-in now open for your flight\nLHR to JFK",
			expected: false,
		},
		{
			name:     "Reject wins over accept",
			text:     "Booking confirmation ABC123 - plus a special offer for your next trip",
			expected: false,
		},
		{
			name:     "Unsubscribe footer rejects",
			text:     "Itinerary for your trip\n\nClick here to unsubscribe",
			expected: false,
		},
		{
			name:     "Reject list is substring based",
			text:     "Your itinerary - wholesale fares",
			expected: false,
		},
		{
			name:     "No keywords",
			text:     "Lunch on Friday?",
			expected: false,
		},
		{
			name:     "Empty",
			text:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsBookingConfirmation(tt.text)
			if got != tt.expected {
				t.Errorf("IsBookingConfirmation() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassify_ReportsDecidingKeyword(t *testing.T) {
	keyword, ok := Classify("Check-in now open for your flight. Your booking reference is ABC123")
	if ok {
		t.Fatal("Expected rejection")
	}
	if keyword != "check-in now" {
		t.Errorf("Expected keyword 'check-in now', got %q", keyword)
	}

	keyword, ok = Classify("Here is your boarding pass")
	if !ok || keyword != "boarding pass" {
		t.Errorf("Classify() = (%q, %v), want (\"boarding pass\", true)", keyword, ok)
	}
}

func TestIsBookingConfirmation_RejectAlwaysWins(t *testing.T) {
	for _, reject := range rejectKeywords {
		for _, accept := range acceptKeywords {
			text := accept + " " + reject
			if IsBookingConfirmation(text) {
				t.Errorf("Expected rejection for %q", text)
			}
		}
	}
}
