package usecase

import (
	"math"
	"sort"

	"flightlog-service/internal/domain/entity"
)

const (
	earthRadiusMiles = 3959.0
	kmPerMile        = 1.60934
	co2KgPer100Miles = 90.0
	cruiseSpeedMph   = 500.0
	topAirportCount  = 5
)

// AirportStat counts visits to one airport
type AirportStat struct {
	Code    string `json:"code"`
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// AirlineStat counts flights with one airline
type AirlineStat struct {
	Airline string `json:"airline"`
	Count   int    `json:"count"`
}

// LongestFlight is the single longest route flown
type LongestFlight struct {
	Route string `json:"route"`
	Miles int    `json:"miles"`
}

// FlightStats summarizes a user's flights
type FlightStats struct {
	TotalFlights     int            `json:"totalFlights"`
	TotalMiles       int            `json:"totalMiles"`
	TotalKilometers  int            `json:"totalKilometers"`
	CountriesVisited []string       `json:"countriesVisited"`
	CountriesCount   int            `json:"countriesCount"`
	CitiesVisited    []string       `json:"citiesVisited"`
	CitiesCount      int            `json:"citiesCount"`
	AirportStats     []AirportStat  `json:"airportStats"`
	AirlineStats     []AirlineStat  `json:"airlineStats"`
	CarbonFootprint  int            `json:"carbonFootprint"`
	TimeInAir        int            `json:"timeInAir"`
	LongestFlight    *LongestFlight `json:"longestFlight"`
}

// CalculateFlightStats aggregates distance, places and carriers. Distances
// only count flights with coordinates at both ends.
func CalculateFlightStats(flights []*entity.Flight) FlightStats {
	stats := FlightStats{
		TotalFlights:     len(flights),
		CountriesVisited: []string{},
		CitiesVisited:    []string{},
		AirportStats:     []AirportStat{},
		AirlineStats:     []AirlineStat{},
	}

	var totalMiles float64
	countries := make(map[string]struct{})
	cities := make(map[string]struct{})
	airportIndex := make(map[string]int)
	airlineIndex := make(map[string]int)

	countAirport := func(code, city, country string) {
		if code == "" {
			return
		}
		if i, ok := airportIndex[code]; ok {
			stats.AirportStats[i].Count++
			return
		}
		airportIndex[code] = len(stats.AirportStats)
		stats.AirportStats = append(stats.AirportStats, AirportStat{Code: code, City: city, Country: country, Count: 1})
	}

	for _, f := range flights {
		if hasCoordinates(f) {
			miles := HaversineMiles(*f.DepartureLat, *f.DepartureLng, *f.ArrivalLat, *f.ArrivalLng)
			totalMiles += miles
			if stats.LongestFlight == nil || int(math.Round(miles)) > stats.LongestFlight.Miles {
				stats.LongestFlight = &LongestFlight{
					Route: f.DepartureAirport + " → " + f.ArrivalAirport,
					Miles: int(math.Round(miles)),
				}
			}
		}

		for _, c := range []string{f.DepartureCountry, f.ArrivalCountry} {
			if c != "" {
				countries[c] = struct{}{}
			}
		}
		for _, c := range []string{f.DepartureCity, f.ArrivalCity} {
			if c != "" {
				cities[c] = struct{}{}
			}
		}

		countAirport(f.DepartureAirport, f.DepartureCity, f.DepartureCountry)
		countAirport(f.ArrivalAirport, f.ArrivalCity, f.ArrivalCountry)

		if f.Airline != "" && f.Airline != "Unknown" {
			if i, ok := airlineIndex[f.Airline]; ok {
				stats.AirlineStats[i].Count++
			} else {
				airlineIndex[f.Airline] = len(stats.AirlineStats)
				stats.AirlineStats = append(stats.AirlineStats, AirlineStat{Airline: f.Airline, Count: 1})
			}
		}
	}

	stats.CountriesVisited = sortedKeys(countries)
	stats.CountriesCount = len(countries)
	stats.CitiesVisited = sortedKeys(cities)
	stats.CitiesCount = len(cities)

	// Stable sorts keep first-seen order among equal counts.
	sort.SliceStable(stats.AirportStats, func(i, j int) bool {
		return stats.AirportStats[i].Count > stats.AirportStats[j].Count
	})
	if len(stats.AirportStats) > topAirportCount {
		stats.AirportStats = stats.AirportStats[:topAirportCount]
	}
	sort.SliceStable(stats.AirlineStats, func(i, j int) bool {
		return stats.AirlineStats[i].Count > stats.AirlineStats[j].Count
	})

	stats.TotalMiles = int(math.Round(totalMiles))
	stats.TotalKilometers = int(math.Round(totalMiles * kmPerMile))
	stats.CarbonFootprint = int(math.Round(totalMiles / 100 * co2KgPer100Miles))
	stats.TimeInAir = int(math.Round(totalMiles / cruiseSpeedMph))

	return stats
}

// HaversineMiles returns the great-circle distance in miles
func HaversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func hasCoordinates(f *entity.Flight) bool {
	return f.DepartureLat != nil && f.DepartureLng != nil && f.ArrivalLat != nil && f.ArrivalLng != nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
