package entity

// Airline maps a two-letter IATA airline designator to its name
type Airline struct {
	ID   uint
	Code string
	Name string
}
