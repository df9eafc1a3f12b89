package domain

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Point converts to an orb point, which is ordered [lon, lat].
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Query renders the coordinates as "lat,lon", the form the search service expects.
func (c Coordinates) Query() string {
	return formatFloat(c.Lat) + "," + formatFloat(c.Lon)
}

// Label renders the coordinates as a human readable "lat, lon" name.
func (c Coordinates) Label() string {
	return formatFloat(c.Lat) + ", " + formatFloat(c.Lon)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
