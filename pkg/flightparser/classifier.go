package flightparser

import "strings"

// rejectKeywords mark operational or marketing mail. They are checked before
// acceptKeywords because airline mail often mixes booking and promo language.
var rejectKeywords = []string{
	"check-in now",
	"online check-in",
	"web check-in",
	"mobile check-in",
	"newsletter",
	"special offer",
	"sale",
	"discount",
	"subscribe",
	"unsubscribe",
	"promotional",
	"advertisement",
}

var acceptKeywords = []string{
	"booking confirmation",
	"flight confirmation",
	"ticket confirmation",
	"your booking",
	"itinerary",
	"e-ticket",
	"eticket",
	"travel confirmation",
	"reservation confirmed",
	"booking reference",
	"pnr",
	"record locator",
	"boarding pass",
	"ticket receipt",
	"flight receipt",
}

// IsBookingConfirmation decides whether text is a genuine booking confirmation.
// Any reject keyword wins over any accept keyword.
func IsBookingConfirmation(text string) bool {
	_, ok := Classify(text)
	return ok
}

// Classify is IsBookingConfirmation that also returns the keyword that decided
// the verdict, or "" when nothing matched.
func Classify(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, keyword := range rejectKeywords {
		if strings.Contains(lower, keyword) {
			return keyword, false
		}
	}

	for _, keyword := range acceptKeywords {
		if strings.Contains(lower, keyword) {
			return keyword, true
		}
	}

	return "", false
}
