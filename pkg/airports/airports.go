// Package airports holds the static IATA table used to validate airport
// codes found in email text and to enrich stored flights.
package airports

import (
	"sort"
	"strings"

	"flightlog-service/internal/domain/entity"
)

// validCodes is a subset of the ~9000 IATA airport codes
var validCodes = map[string]struct{}{}

func init() {
	for _, group := range [][]string{
		// Major international hubs
		{"LHR", "JFK", "LAX", "ORD", "DXB", "CDG", "AMS", "FRA", "IST", "SIN",
			"HKG", "NRT", "ICN", "PEK", "PVG", "CAN", "SYD", "MEL", "YYZ", "YVR"},
		// United States
		{"ATL", "DFW", "DEN", "SFO", "SEA", "LAS", "MCO", "EWR", "BOS", "IAH",
			"MIA", "PHX", "IAD", "MSP", "DTW", "PHL", "LGA", "BWI", "MDW", "SLC",
			"SAN", "TPA", "PDX", "STL", "HNL", "AUS", "BNA", "OAK", "RDU", "SMF"},
		// Europe
		{"MAD", "BCN", "FCO", "MXP", "VCE", "MUC", "ZRH", "VIE", "BRU", "CPH",
			"OSL", "ARN", "HEL", "WAW", "PRG", "BUD", "ATH", "LIS", "OPO", "DUB",
			"MAN", "EDI", "GLA", "LGW", "STN", "LTN", "BHX", "NCL"},
		// Asia
		{"BKK", "KUL", "CGK", "MNL", "HAN", "SGN", "DEL", "BOM", "BLR", "HYD",
			"TPE", "KHH", "OSA", "NGO", "FUK", "CTU", "XIY", "WUH", "SZX", "SHA"},
		// Middle East
		{"DOH", "AUH", "KWI", "RUH", "JED", "CAI", "AMM", "BEY", "TLV"},
		// Latin America
		{"GRU", "GIG", "EZE", "SCL", "LIM", "BOG", "MEX", "PTY", "UIO"},
		// Africa
		{"JNB", "CPT", "NBO", "ADD", "LOS", "ACC", "CMN", "TUN"},
		// Oceania
		{"AKL", "CHC", "WLG", "BNE", "PER", "ADL"},
		// Turkey
		{"SAW", "AYT", "ADB", "ESB", "DLM", "BJV", "TZX", "ASR"},
		// Thailand
		{"DMK", "CNX", "HKT", "USM", "HDY"},
	} {
		for _, code := range group {
			validCodes[code] = struct{}{}
		}
	}
	for code := range airportData {
		validCodes[code] = struct{}{}
	}
}

var airportData = map[string]entity.Airport{
	"LHR": {Code: "LHR", City: "London", Country: "United Kingdom", Lat: 51.4700, Lng: -0.4543},
	"JFK": {Code: "JFK", City: "New York", Country: "United States", Lat: 40.6413, Lng: -73.7781},
	"LAX": {Code: "LAX", City: "Los Angeles", Country: "United States", Lat: 33.9416, Lng: -118.4085},
	"DXB": {Code: "DXB", City: "Dubai", Country: "United Arab Emirates", Lat: 25.2532, Lng: 55.3657},
	"CDG": {Code: "CDG", City: "Paris", Country: "France", Lat: 49.0097, Lng: 2.5479},
	"BKK": {Code: "BKK", City: "Bangkok", Country: "Thailand", Lat: 13.6900, Lng: 100.7501},
	"IST": {Code: "IST", City: "Istanbul", Country: "Turkey", Lat: 41.2753, Lng: 28.7519},
	"SFO": {Code: "SFO", City: "San Francisco", Country: "United States", Lat: 37.6213, Lng: -122.3790},
	"ORD": {Code: "ORD", City: "Chicago", Country: "United States", Lat: 41.9742, Lng: -87.9073},
	"AMS": {Code: "AMS", City: "Amsterdam", Country: "Netherlands", Lat: 52.3105, Lng: 4.7683},
	"FRA": {Code: "FRA", City: "Frankfurt", Country: "Germany", Lat: 50.0379, Lng: 8.5622},
	"SIN": {Code: "SIN", City: "Singapore", Country: "Singapore", Lat: 1.3644, Lng: 103.9915},
	"HKG": {Code: "HKG", City: "Hong Kong", Country: "Hong Kong", Lat: 22.3080, Lng: 113.9185},
	"NRT": {Code: "NRT", City: "Tokyo", Country: "Japan", Lat: 35.7653, Lng: 140.3863},
	"ICN": {Code: "ICN", City: "Seoul", Country: "South Korea", Lat: 37.4602, Lng: 126.4407},
	"SYD": {Code: "SYD", City: "Sydney", Country: "Australia", Lat: -33.9399, Lng: 151.1753},
	"YYZ": {Code: "YYZ", City: "Toronto", Country: "Canada", Lat: 43.6777, Lng: -79.6248},
	"ATL": {Code: "ATL", City: "Atlanta", Country: "United States", Lat: 33.6407, Lng: -84.4277},
	"DFW": {Code: "DFW", City: "Dallas", Country: "United States", Lat: 32.8998, Lng: -97.0403},
	"DEN": {Code: "DEN", City: "Denver", Country: "United States", Lat: 39.8561, Lng: -104.6737},
	"SAW": {Code: "SAW", City: "Istanbul", Country: "Turkey", Lat: 40.8986, Lng: 29.3092},
	"AYT": {Code: "AYT", City: "Antalya", Country: "Turkey", Lat: 36.8987, Lng: 30.8005},
	"HKT": {Code: "HKT", City: "Phuket", Country: "Thailand", Lat: 8.1132, Lng: 98.3169},
	"CNX": {Code: "CNX", City: "Chiang Mai", Country: "Thailand", Lat: 18.7668, Lng: 98.9626},
}

// IsValidCode reports whether code is a known IATA airport code
func IsValidCode(code string) bool {
	_, ok := validCodes[strings.ToUpper(code)]
	return ok
}

// Lookup returns geographic data for code, or nil when the static table has none
func Lookup(code string) *entity.Airport {
	airport, ok := airportData[strings.ToUpper(code)]
	if !ok {
		return nil
	}
	return &airport
}

// All returns every airport with geographic data, sorted by code
func All() []entity.Airport {
	out := make([]entity.Airport, 0, len(airportData))
	for _, a := range airportData {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
