// Package flightparser holds the heuristic side of flight extraction: the
// booking classifier and the pure field extractors.
package flightparser

import (
	"html"
	"regexp"
	"strings"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// FlightParser extracts flight fields from normalized email text
type FlightParser struct {
	isValidAirport func(string) bool
	logger         logger.Logger
}

// NewFlightParser creates a parser that accepts only airport codes for which
// isValidAirport returns true
func NewFlightParser(isValidAirport func(string) bool, logger logger.Logger) *FlightParser {
	return &FlightParser{
		isValidAirport: isValidAirport,
		logger:         logger,
	}
}

// Extract runs every field extractor over text. It returns nil unless both a
// departure and an arrival airport were found.
func (p *FlightParser) Extract(text string) *entity.ExtractedFlight {
	flight := &entity.ExtractedFlight{
		ConfirmationCode: ExtractConfirmationCode(text),
		Airline:          ExtractAirline(text),
		FlightNumber:     ExtractFlightNumber(text),
	}

	// No direction semantics: the first two valid codes are taken as departure, arrival.
	codes := ExtractAirportCodes(text, p.isValidAirport)
	if len(codes) >= 2 {
		flight.DepartureAirport = codes[0]
		flight.ArrivalAirport = codes[1]
	}

	dates := ExtractDates(text)
	if len(dates) > 0 {
		flight.DepartureDate = &dates[0]
		if len(dates) > 1 {
			flight.ArrivalDate = &dates[1]
		}
	}

	p.logger.Debug("Heuristic extraction finished",
		"confirmationCode", flight.ConfirmationCode,
		"flightNumber", flight.FlightNumber,
		"airportCodes", codes,
		"dateCount", len(dates))

	if !flight.IsUsable() {
		return nil
	}
	return flight
}

// CleanHTMLText removes HTML tags, decodes entities and collapses whitespace
func CleanHTMLText(text string) string {
	cleaned := htmlTagRegex.ReplaceAllString(text, "")
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", " ")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
