package gmaps

import (
	"regexp"
	"strconv"
)

// Detail URLs embed the place coordinates as "...!3d<lat>!4d<lon>...".
var coordsPattern = regexp.MustCompile(`!3d(-?[\d.]+)!4d(-?[\d.]+)`)

// extractCoords pulls latitude/longitude out of a detail URL. Both values
// are nil when the pattern is absent or either group fails to parse.
func extractCoords(url string) (*float64, *float64) {
	m := coordsPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, nil
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, nil
	}
	return &lat, &lon
}
