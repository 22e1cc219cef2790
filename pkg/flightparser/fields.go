package flightparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// confirmationPatterns are tried in order; the first match wins. Labels are
// case-insensitive, the captured code is not.
var confirmationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?i:confirmation\s*(?:code|number)?):?\s*([A-Z0-9]{5,8})`),
	regexp.MustCompile(`\b(?i:booking\s*(?:reference|code)?):?\s*([A-Z0-9]{5,8})`),
	regexp.MustCompile(`\b(?i:PNR):?\s*([A-Z0-9]{5,8})`),
	regexp.MustCompile(`\b(?i:record\s*locator):?\s*([A-Z0-9]{5,8})`),
	regexp.MustCompile(`\b(?i:reservation\s*(?:code|number)?):?\s*([A-Z0-9]{5,8})`),
	regexp.MustCompile(`\b(?i:ref(?:erence)?):?\s*([A-Z0-9]{5,8})`),
	regexp.MustCompile(`\b(?i:ticket\s*number):?\s*([A-Z0-9]{5,8})`),
}

// airlineNames must list longer names before any shorter name they contain
var airlineNames = []string{
	"American Airlines",
	"Delta Air Lines",
	"Delta",
	"United Airlines",
	"United",
	"Southwest Airlines",
	"Southwest",
	"JetBlue",
	"Alaska Airlines",
	"British Airways",
	"Lufthansa",
	"Air France",
	"KLM",
	"Emirates",
	"Qatar Airways",
	"Turkish Airlines",
	"Pegasus Airlines",
	"Etihad Airways",
	"Etihad",
	"Virgin Atlantic",
	"Iberia",
	"Ryanair",
	"easyJet",
	"Air Canada",
	"Qantas",
	"Singapore Airlines",
	"Cathay Pacific",
	"All Nippon Airways",
	"ANA",
	"Japan Airlines",
	"JAL",
	"Thai Airways",
	"Malaysia Airlines",
	"Garuda Indonesia",
	"AirAsia",
	"Air Asia",
}

var (
	flightNumberRegex = regexp.MustCompile(`\b([A-Z]{2})\s*(\d{1,4})\b`)
	airportCodeRegex  = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

type datePattern struct {
	re    *regexp.Regexp
	parse func(m []string) (time.Time, bool)
}

// datePatterns are applied in order, each over the whole text
var datePatterns = []datePattern{
	{
		// 2024-01-28, 2024/01/28
		re: regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`),
		parse: func(m []string) (time.Time, bool) {
			return buildDate(m[1], monthFromNumber(m[2]), m[3])
		},
	},
	{
		// 28 Jan 2024, 28 January 2024
		re: regexp.MustCompile(`(?i)(\d{1,2})\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{4})`),
		parse: func(m []string) (time.Time, bool) {
			return buildDate(m[3], monthFromName(m[2]), m[1])
		},
	},
	{
		// January 28, 2024
		re: regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2}),?\s+(\d{4})`),
		parse: func(m []string) (time.Time, bool) {
			return buildDate(m[3], monthFromName(m[1]), m[2])
		},
	},
}

var monthTable = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ExtractConfirmationCode returns the code after the highest-priority label found
func ExtractConfirmationCode(text string) string {
	for _, re := range confirmationPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractAirline returns the first known airline name contained in text
func ExtractAirline(text string) string {
	for _, name := range airlineNames {
		if strings.Contains(text, name) {
			return name
		}
	}
	return ""
}

// ExtractFlightNumber returns the first designator+number in document order, e.g. "BA456"
func ExtractFlightNumber(text string) string {
	m := flightNumberRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + m[2]
}

// ExtractAirportCodes returns the distinct valid IATA codes in first-seen order
func ExtractAirportCodes(text string, isValid func(string) bool) []string {
	var codes []string
	seen := make(map[string]bool)

	for _, token := range airportCodeRegex.FindAllString(text, -1) {
		if seen[token] || !isValid(token) {
			continue
		}
		seen[token] = true
		codes = append(codes, token)
	}

	return codes
}

// ExtractDates returns every date found, grouped by pattern order and in
// document order within a pattern
func ExtractDates(text string) []time.Time {
	var dates []time.Time

	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if date, ok := p.parse(m); ok {
				dates = append(dates, date)
			}
		}
	}

	return dates
}

func monthFromNumber(s string) time.Month {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0
	}
	return time.Month(n)
}

func monthFromName(s string) time.Month {
	if len(s) < 3 {
		return 0
	}
	return monthTable[strings.ToLower(s[:3])]
}

// buildDate rejects impossible calendar dates instead of normalizing them
func buildDate(yearStr string, month time.Month, dayStr string) (time.Time, bool) {
	if month == 0 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 {
		return time.Time{}, false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
