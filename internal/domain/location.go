package domain

// Represents a named place returned by the location search service
// or synthesized from a map click. A Location never changes once created.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lon: l.Longitude, Lat: l.Latitude}
}

// PointLocation builds the synthetic Location used for direct map picks.
// Its name is the formatted coordinates of the picked point.
func PointLocation(lat, lon float64) Location {
	c := Coordinates{Lon: lon, Lat: lat}
	return Location{Name: c.Label(), Latitude: lat, Longitude: lon}
}
