package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Datum is the geodetic reference system a GeoPoint is expressed in.
//
// The zero value is special and means an unknown datum. Constructors never
// produce it.
type Datum uint8

const (
	DatumUnknown Datum = iota
	DatumTokyo
	DatumWGS84
)

var (
	// ErrUnknownDatum is returned when a datum name is not recognised.
	ErrUnknownDatum = errors.New("unknown datum")
	// ErrInvalidPointText is returned when a point literal is malformed.
	ErrInvalidPointText = errors.New("invalid point text")
	// ErrInvalidRecord is returned when a point record cannot be decoded.
	ErrInvalidRecord = errors.New("invalid point record")
)

// Datums lists every supported datum in display order.
func Datums() []Datum {
	return []Datum{DatumTokyo, DatumWGS84}
}

func (d Datum) String() string {
	switch d {
	case DatumTokyo:
		return "tokyo"
	case DatumWGS84:
		return "wgs84"
	default:
		return "unknown"
	}
}

// Description is a human readable name for table output.
func (d Datum) Description() string {
	switch d {
	case DatumTokyo:
		return "Tokyo Datum (Bessel 1841)"
	case DatumWGS84:
		return "World Geodetic System 1984"
	default:
		return "unknown datum"
	}
}

// ParseDatum resolves a datum name.
func ParseDatum(v string) (Datum, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "tokyo":
		return DatumTokyo, nil
	case "wgs84", "wgs-84":
		return DatumWGS84, nil
	default:
		return DatumUnknown, fmt.Errorf("%w %q (supported: tokyo, wgs84)", ErrUnknownDatum, v)
	}
}

// GeoPoint is an immutable latitude/longitude pair tagged with its datum.
//
// Latitude and longitude are integers in whatever scale the caller uses; the
// type never interprets them. Points of different datums are never equal,
// even when their numeric fields match. GeoPoint values are comparable with ==.
type GeoPoint struct {
	latitude  int
	longitude int
	datum     Datum
}

// NewTokyoGeoPoint constructs a Tokyo Datum point. Any integer pair is accepted.
func NewTokyoGeoPoint(latitude, longitude int) GeoPoint {
	return GeoPoint{latitude: latitude, longitude: longitude, datum: DatumTokyo}
}

// NewWGS84GeoPoint constructs a WGS84 point. Any integer pair is accepted.
func NewWGS84GeoPoint(latitude, longitude int) GeoPoint {
	return GeoPoint{latitude: latitude, longitude: longitude, datum: DatumWGS84}
}

// NewGeoPoint dispatches to the constructor for the given datum.
func NewGeoPoint(datum Datum, latitude, longitude int) (GeoPoint, error) {
	switch datum {
	case DatumTokyo:
		return NewTokyoGeoPoint(latitude, longitude), nil
	case DatumWGS84:
		return NewWGS84GeoPoint(latitude, longitude), nil
	default:
		return GeoPoint{}, fmt.Errorf("%w: %d", ErrUnknownDatum, uint8(datum))
	}
}

func (p GeoPoint) Latitude() int  { return p.latitude }
func (p GeoPoint) Longitude() int { return p.longitude }
func (p GeoPoint) Datum() Datum   { return p.datum }

// Valid reports whether p came from a constructor. The zero GeoPoint is not valid.
func (p GeoPoint) Valid() bool {
	return p.datum == DatumTokyo || p.datum == DatumWGS84
}

// Equal reports value equality, datum included.
func (p GeoPoint) Equal(other GeoPoint) bool {
	return p == other
}

// String renders the point literal, e.g. "35x135".
func (p GeoPoint) String() string {
	return strconv.Itoa(p.latitude) + "x" + strconv.Itoa(p.longitude)
}

// WithinBounds reports whether the point lies in [-90,90]x[-180,180] degrees
// when unitsPerDegree integer units make up one degree. It is never applied by
// the constructors.
func (p GeoPoint) WithinBounds(unitsPerDegree int) bool {
	if unitsPerDegree <= 0 {
		return false
	}
	return withinDegrees(p.latitude, unitsPerDegree, 90) && withinDegrees(p.longitude, unitsPerDegree, 180)
}

// withinDegrees reports |value| <= limit*unitsPerDegree without forming the product.
func withinDegrees(value, unitsPerDegree, limit int) bool {
	whole, rest := value/unitsPerDegree, value%unitsPerDegree
	if whole > -limit && whole < limit {
		return true
	}
	return (whole == limit || whole == -limit) && rest == 0
}

// ParseGeoPoint parses "<lat>x<lon>" or "<lat>,<lon>" in the given datum.
func ParseGeoPoint(datum Datum, text string) (GeoPoint, error) {
	trimmed := strings.TrimSpace(text)
	latText, lonText, ok := strings.Cut(trimmed, "x")
	if !ok {
		latText, lonText, ok = strings.Cut(trimmed, ",")
	}
	if !ok {
		return GeoPoint{}, fmt.Errorf("%w %q: expected <lat>x<lon> or <lat>,<lon>", ErrInvalidPointText, text)
	}
	latitude, err := strconv.Atoi(strings.TrimSpace(latText))
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w %q: latitude: %v", ErrInvalidPointText, text, err)
	}
	longitude, err := strconv.Atoi(strings.TrimSpace(lonText))
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w %q: longitude: %v", ErrInvalidPointText, text, err)
	}
	return NewGeoPoint(datum, latitude, longitude)
}

// PointRecord is the serialisable form of a GeoPoint.
type PointRecord struct {
	Datum     string `json:"datum" yaml:"datum"`
	Latitude  int    `json:"latitude" yaml:"latitude"`
	Longitude int    `json:"longitude" yaml:"longitude"`
}

// Record returns the serialisable form of p.
func (p GeoPoint) Record() PointRecord {
	return PointRecord{
		Datum:     p.datum.String(),
		Latitude:  p.latitude,
		Longitude: p.longitude,
	}
}

// PointFromRecord rebuilds a GeoPoint from its record.
func PointFromRecord(rec PointRecord) (GeoPoint, error) {
	datum, err := ParseDatum(rec.Datum)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return NewGeoPoint(datum, rec.Latitude, rec.Longitude)
}

func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Record())
}

func (p GeoPoint) MarshalYAML() (any, error) {
	return p.Record(), nil
}
