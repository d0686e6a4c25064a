package domain

import (
	"context"
	"time"
)

// RawFieldRecord is the flat JSON produced by the upstream tokenizer: one
// NMEA sentence split into named fields. Fields a sentence does not carry are
// left empty.
type RawFieldRecord struct {
	Sentence      string `json:"sentence"` // original sentence text, informational only
	Type          string `json:"type"`     // talker + type, e.g. "GPRMC"
	Time          Field  `json:"time"`     // hhmmss[.sss]
	Date          Field  `json:"date"`     // ddmmyy
	Lat           Field  `json:"lat"`      // ddmm.mmmm
	LatPole       string `json:"lat_pole"`
	Lon           Field  `json:"lon"` // dddmm.mmmm
	LonPole       string `json:"lon_pole"`
	Speed         Field  `json:"speed"`
	SpeedUnit     string `json:"speed_unit"` // defaults to knots
	Course        Field  `json:"course"`     // degrees true
	Distance      Field  `json:"distance"`
	DistanceUnit  string `json:"distance_unit"` // defaults to nm
	Variation     Field  `json:"variation"`
	VariationPole string `json:"variation_pole"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Source tags a fix with where it came from.
type Source struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Sentence string `json:"sentence,omitempty"`
}

// Position is a WGS-84 coordinate pair in signed decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Measurement is a magnitude with the unit it is expressed in.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// OutputUnits selects the units speeds and distances are converted to.
type OutputUnits struct {
	Speed    string
	Distance string
}

// DefaultOutputUnits converts speeds to metres per second and distances to
// kilometres.
var DefaultOutputUnits = OutputUnits{Speed: "ms", Distance: "km"}

// NavFix is the normalized representation of one field record.
// Values that failed to coerce are omitted and named in InvalidFields.
type NavFix struct {
	ID                string       `json:"id"`
	SentenceType      string       `json:"sentence_type"`
	Source            Source       `json:"source"`
	Timestamp         string       `json:"timestamp,omitempty"`
	Position          *Position    `json:"position,omitempty"`
	Speed             *Measurement `json:"speed,omitempty"`
	CourseDeg         *float64     `json:"course_deg,omitempty"`
	Distance          *Measurement `json:"distance,omitempty"`
	MagneticVariation *float64     `json:"magnetic_variation,omitempty"`
	InvalidFields     []string     `json:"invalid_fields,omitempty"`

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for a sink.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
