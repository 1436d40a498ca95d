package client

import "time"

// Region is one catalog entry.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Info string `json:"info"`
}

// RegionSummary is a region with its representative count.
type RegionSummary struct {
	Region
	Count int `json:"count"`
}

// Tooltip is the hover text of a region.
type Tooltip struct {
	RegionID string `json:"region_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Text     string `json:"text"`
}

// ContactCard is one representative of the contact panel.
type ContactCard struct {
	ID         int64    `json:"id"`
	Initials   string   `json:"initials"`
	Name       string   `json:"name"`
	Position   string   `json:"position,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	PhoneHref  string   `json:"phone_href,omitempty"`
	Email      string   `json:"email,omitempty"`
	EmailHref  string   `json:"email_href,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// ContactPanel lists the representatives of the selected region.  Region is
// nil when nothing is selected.
type ContactPanel struct {
	Region  *Region       `json:"region,omitempty"`
	Cards   []ContactCard `json:"cards"`
	Message string        `json:"message,omitempty"`
}

// ActivityStat counts representatives per activity.
type ActivityStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats aggregates the whole collection.
type Stats struct {
	TotalRepresentatives int            `json:"total_representatives"`
	RegionsCovered       int            `json:"regions_covered"`
	Activities           []ActivityStat `json:"activities"`
	Message              string         `json:"message,omitempty"`
}

// Point is a position in map coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is the fallback circle drawn for a region without geometry.
type Marker struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Shape is one drawable element of the map.
type Shape struct {
	RegionID string  `json:"region_id"`
	Name     string  `json:"name"`
	Info     string  `json:"info"`
	Path     string  `json:"path,omitempty"`
	Marker   *Marker `json:"marker,omitempty"`
}

// LocateResult is the region found for a point or an address.
type LocateResult struct {
	Region  Region  `json:"region"`
	Method  string  `json:"method"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Tooltip Tooltip `json:"tooltip"`
}

// AtlasInfo describes the geographic document the server has loaded.
type AtlasInfo struct {
	Fingerprint string   `json:"fingerprint"`
	Source      string   `json:"source"`
	Shapes      int      `json:"shapes"`
	Regions     int      `json:"regions"`
	Unmapped    []string `json:"unmapped,omitempty"`
}

// Representative is one contact person.  RegionIDs holds region ids or
// regional group codes.
type Representative struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Position   string   `json:"position,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	RegionIDs  []string `json:"regionId"`
	Activities []string `json:"activity,omitempty"`
}

// Snapshot is the representative collection currently served.
type Snapshot struct {
	Version         uint64           `json:"version"`
	Digest          string           `json:"digest"`
	Source          string           `json:"source"`
	FetchedAt       time.Time        `json:"fetched_at"`
	Representatives []Representative `json:"representatives"`
}

// RefreshResult summarises a forced reload.
type RefreshResult struct {
	Version   uint64    `json:"version"`
	Digest    string    `json:"digest"`
	Source    string    `json:"source"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

//Personal.AI order the ending
