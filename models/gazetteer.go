package models

// Gazetteer is the reference hierarchy used for address resolution:
// state -> district -> postcode -> areas. Loaded once at startup and
// shared read-only across all resolution calls.
type Gazetteer map[string]map[string]map[string]PostcodeEntry

// PostcodeEntry holds the known place names under one postcode.
type PostcodeEntry struct {
	Locations AreaList `json:"locations"`
}

// AreaList is the ordered list of area names for a postcode.
type AreaList struct {
	Area []string `json:"area"`
}
