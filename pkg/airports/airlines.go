package airports

import "flightlog-service/internal/domain/entity"

// designators maps common two-letter IATA airline codes to carrier names
var designators = []entity.Airline{
	{Code: "AA", Name: "American Airlines"},
	{Code: "DL", Name: "Delta Air Lines"},
	{Code: "UA", Name: "United Airlines"},
	{Code: "WN", Name: "Southwest Airlines"},
	{Code: "B6", Name: "JetBlue"},
	{Code: "AS", Name: "Alaska Airlines"},
	{Code: "BA", Name: "British Airways"},
	{Code: "LH", Name: "Lufthansa"},
	{Code: "AF", Name: "Air France"},
	{Code: "KL", Name: "KLM"},
	{Code: "EK", Name: "Emirates"},
	{Code: "QR", Name: "Qatar Airways"},
	{Code: "TK", Name: "Turkish Airlines"},
	{Code: "PC", Name: "Pegasus Airlines"},
	{Code: "EY", Name: "Etihad Airways"},
	{Code: "VS", Name: "Virgin Atlantic"},
	{Code: "IB", Name: "Iberia"},
	{Code: "FR", Name: "Ryanair"},
	{Code: "U2", Name: "easyJet"},
	{Code: "AC", Name: "Air Canada"},
	{Code: "QF", Name: "Qantas"},
	{Code: "SQ", Name: "Singapore Airlines"},
	{Code: "CX", Name: "Cathay Pacific"},
	{Code: "NH", Name: "All Nippon Airways"},
	{Code: "JL", Name: "Japan Airlines"},
	{Code: "TG", Name: "Thai Airways"},
	{Code: "MH", Name: "Malaysia Airlines"},
	{Code: "GA", Name: "Garuda Indonesia"},
	{Code: "AK", Name: "AirAsia"},
}

// Airlines returns the seed list of airline designators
func Airlines() []entity.Airline {
	out := make([]entity.Airline, len(designators))
	copy(out, designators)
	return out
}
