package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"
)

const (
	notFlightBookingSentinel = "NOT_FLIGHT_BOOKING"
	fallbackBodyLimit        = 2000
)

const fallbackPromptTemplate = `You extract flight bookings from emails.
If this email is NOT a confirmed flight booking (check-in reminder, marketing, newsletter, price alert),
respond with exactly: {"error":"%s"}

Otherwise respond with ONLY a JSON object with these fields (null when not found):
- confirmationCode: booking reference or PNR
- airline: airline name
- flightNumber: airline code plus number, e.g. "BA456" (REQUIRED, without it respond with the error object above)
- departureAirport: 3-letter IATA code, uppercase
- arrivalAirport: 3-letter IATA code, uppercase
- departureDate: YYYY-MM-DD
- arrivalDate: YYYY-MM-DD

Email Subject: %s

Email Body:
%s

Return ONLY valid JSON, no markdown, no explanations.`

// fallbackResponse is the JSON object the model is asked to return
type fallbackResponse struct {
	Error            string  `json:"error"`
	ConfirmationCode *string `json:"confirmationCode"`
	Airline          *string `json:"airline"`
	FlightNumber     *string `json:"flightNumber"`
	DepartureAirport *string `json:"departureAirport"`
	ArrivalAirport   *string `json:"arrivalAirport"`
	DepartureDate    *string `json:"departureDate"`
	ArrivalDate      *string `json:"arrivalDate"`
}

// FallbackExtractor asks a language model for the flight fields when the
// heuristics come up short
type FallbackExtractor struct {
	client CompletionClient
	logger logger.Logger
}

// NewFallbackExtractor creates a new fallback extractor
func NewFallbackExtractor(client CompletionClient, logger logger.Logger) *FallbackExtractor {
	return &FallbackExtractor{
		client: client,
		logger: logger,
	}
}

// Enabled reports whether a model is configured
func (e *FallbackExtractor) Enabled() bool {
	return e.client != nil && e.client.Enabled()
}

// Extract returns a record only when the model produced departure, arrival
// and flight number. Every failure yields nil.
func (e *FallbackExtractor) Extract(ctx context.Context, subject, text string) *entity.ExtractedFlight {
	if !e.Enabled() {
		e.logger.Debug("Fallback extraction disabled, skipping")
		return nil
	}

	response, err := e.client.Complete(ctx, BuildFallbackPrompt(subject, text))
	if err != nil {
		e.logger.Error("Fallback completion failed", "subject", subject, "error", err)
		return nil
	}

	flight, err := ParseFallbackResponse(response)
	if err != nil {
		e.logger.Warn("Fallback response rejected", "subject", subject, "reason", err.Error())
		return nil
	}

	return flight
}

// BuildFallbackPrompt fills the instruction template, truncating the body
func BuildFallbackPrompt(subject, text string) string {
	body := []rune(text)
	if len(body) > fallbackBodyLimit {
		body = body[:fallbackBodyLimit]
	}
	return fmt.Sprintf(fallbackPromptTemplate, notFlightBookingSentinel, subject, string(body))
}

// ParseFallbackResponse decodes the first well-formed JSON object in response
// and validates it
func ParseFallbackResponse(response string) (*entity.ExtractedFlight, error) {
	raw, ok := firstJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed fallbackResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("model declined: %s", parsed.Error)
	}

	flight := &entity.ExtractedFlight{
		ConfirmationCode: strings.TrimSpace(deref(parsed.ConfirmationCode)),
		Airline:          strings.TrimSpace(deref(parsed.Airline)),
		FlightNumber:     normalizeFlightNumber(deref(parsed.FlightNumber)),
		DepartureAirport: normalizeAirportCode(deref(parsed.DepartureAirport)),
		ArrivalAirport:   normalizeAirportCode(deref(parsed.ArrivalAirport)),
		DepartureDate:    parseISODate(deref(parsed.DepartureDate)),
		ArrivalDate:      parseISODate(deref(parsed.ArrivalDate)),
	}

	if !flight.IsInsertable() {
		return nil, fmt.Errorf("missing departure, arrival or flight number")
	}
	return flight, nil
}

// firstJSONObject tries every '{' in order and returns the first prefix that
// decodes as an object
func firstJSONObject(s string) (json.RawMessage, bool) {
	for i := strings.IndexByte(s, '{'); i >= 0; {
		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		if err := dec.Decode(&raw); err == nil {
			return raw, true
		}

		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, false
}

func normalizeAirportCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}

// flightDesignatorRegex is a two-character airline designator with at least
// one letter, followed by 1-4 digits
var flightDesignatorRegex = regexp.MustCompile(`^(?:[A-Z]{2}|[A-Z]\d|\d[A-Z])\d{1,4}$`)

// normalizeFlightNumber uppercases and strips spaces. Anything that is not a
// flight designator ("N/A", "null", "-") becomes "".
func normalizeFlightNumber(fn string) string {
	fn = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(fn), " ", ""))
	if !flightDesignatorRegex.MatchString(fn) {
		return ""
	}
	return fn
}

func parseISODate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
