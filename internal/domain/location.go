package domain

import "math"

// Location identifies a point on earth in WGS84 decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WGS84Point scales the location to integer units and tags it WGS84.
func (l Location) WGS84Point(unitsPerDegree int) GeoPoint {
	scale := float64(unitsPerDegree)
	return NewWGS84GeoPoint(int(math.Round(l.Lat*scale)), int(math.Round(l.Lon*scale)))
}
