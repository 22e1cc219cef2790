package usecase

import (
	"math"
	"testing"

	"flightlog-service/internal/domain/entity"
)

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func statsFlight(dep, depCity, depCountry, arr, arrCity, arrCountry, airline string, depLat, depLng, arrLat, arrLng float64) *entity.Flight {
	f := &entity.Flight{
		DepartureAirport: dep, DepartureCity: depCity, DepartureCountry: depCountry,
		ArrivalAirport: arr, ArrivalCity: arrCity, ArrivalCountry: arrCountry,
		Airline: airline,
	}
	f.DepartureLat, f.DepartureLng = coords(depLat, depLng)
	f.ArrivalLat, f.ArrivalLng = coords(arrLat, arrLng)
	return f
}

func TestHaversineMiles(t *testing.T) {
	// LHR to JFK is roughly 3450 miles
	got := HaversineMiles(51.4700, -0.4543, 40.6413, -73.7781)
	if math.Abs(got-3450) > 20 {
		t.Errorf("HaversineMiles(LHR, JFK) = %.0f, want ~3450", got)
	}
	if d := HaversineMiles(10, 10, 10, 10); d != 0 {
		t.Errorf("Same point distance = %f, want 0", d)
	}
}

func TestCalculateFlightStats(t *testing.T) {
	flights := []*entity.Flight{
		statsFlight("LHR", "London", "United Kingdom", "JFK", "New York", "United States", "British Airways", 51.4700, -0.4543, 40.6413, -73.7781),
		statsFlight("JFK", "New York", "United States", "LHR", "London", "United Kingdom", "British Airways", 40.6413, -73.7781, 51.4700, -0.4543),
		statsFlight("IST", "Istanbul", "Turkey", "SAW", "Istanbul", "Turkey", "Unknown", 41.2753, 28.7519, 40.8986, 29.3092),
		{DepartureAirport: "MAD", ArrivalAirport: "BCN", Airline: "Iberia"},
	}

	stats := CalculateFlightStats(flights)

	if stats.TotalFlights != 4 {
		t.Errorf("TotalFlights = %d, want 4", stats.TotalFlights)
	}
	if stats.CountriesCount != 3 || stats.CountriesVisited[0] != "Turkey" {
		t.Errorf("Countries = %v", stats.CountriesVisited)
	}
	if stats.CitiesCount != 3 {
		t.Errorf("Cities = %v", stats.CitiesVisited)
	}
	if len(stats.AirportStats) != 5 {
		t.Fatalf("Expected top 5 airports, got %d", len(stats.AirportStats))
	}
	if top := stats.AirportStats[0]; top.Code != "LHR" || top.Count != 2 || top.City != "London" {
		t.Errorf("Top airport = %+v, want LHR x2", top)
	}
	if len(stats.AirlineStats) != 2 || stats.AirlineStats[0].Airline != "British Airways" || stats.AirlineStats[0].Count != 2 {
		t.Errorf("AirlineStats = %+v", stats.AirlineStats)
	}
	if stats.LongestFlight == nil || stats.LongestFlight.Route != "LHR → JFK" {
		t.Errorf("LongestFlight = %+v, want LHR → JFK", stats.LongestFlight)
	}
	if stats.TotalKilometers <= stats.TotalMiles {
		t.Errorf("Kilometers %d should exceed miles %d", stats.TotalKilometers, stats.TotalMiles)
	}
	wantCO2 := int(math.Round(float64(stats.TotalMiles) / 100 * 90))
	if math.Abs(float64(stats.CarbonFootprint-wantCO2)) > 1 {
		t.Errorf("CarbonFootprint = %d, want ~%d", stats.CarbonFootprint, wantCO2)
	}
}

func TestCalculateFlightStats_Empty(t *testing.T) {
	stats := CalculateFlightStats(nil)
	if stats.TotalFlights != 0 || stats.LongestFlight != nil || stats.CountriesVisited == nil {
		t.Errorf("Unexpected empty stats %+v", stats)
	}
}
