package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/navfield-etl/internal/navfield"
)

const (
	// SourceType and SourceLabel identify fixes produced by this service.
	SourceType  = "NMEA0183"
	SourceLabel = "navfield-etl"

	defaultSpeedUnit    = navfield.Knots
	defaultDistanceUnit = navfield.NM
)

// Names used in NavFix.InvalidFields.
const (
	FieldTimestamp = "timestamp"
	FieldLat       = "lat"
	FieldLon       = "lon"
	FieldSpeed     = "speed"
	FieldCourse    = "course"
	FieldDistance  = "distance"
	FieldVariation = "variation"
)

// ParseRawEvent decodes a RawEvent's value as a RawFieldRecord and normalizes
// it. Only undecodable JSON is an error; fields that fail to coerce are
// reported in NavFix.InvalidFields instead.
func ParseRawEvent(raw RawEvent, units OutputUnits) (NavFix, error) {
	var rec RawFieldRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return NavFix{}, fmt.Errorf("parse raw event: %w", err)
	}

	fix := NormalizeRecord(rec, units)
	fix.RawPayload = raw.Value
	return fix, nil
}

// NormalizeRecord converts a field record into a NavFix. Position, speed,
// course, distance and variation are only set when the record carries them.
func NormalizeRecord(rec RawFieldRecord, units OutputUnits) NavFix {
	fix := NavFix{
		ID:           generateID(rec),
		SentenceType: normalizeSentenceType(rec.Type),
		Source:       NewSource(rec.Sentence),
	}

	var invalid []string

	fix.Timestamp = navfield.NormalizeTimestamp(clock, rec.Time.String(), rec.Date.String())
	if fix.Timestamp == "" {
		invalid = append(invalid, FieldTimestamp)
	}

	if rec.Lat != "" || rec.Lon != "" {
		lat := navfield.DecodeCoordinate(rec.Lat.String(), rec.LatPole)
		lon := navfield.DecodeCoordinate(rec.Lon.String(), rec.LonPole)
		if !isFinite(lat) {
			invalid = append(invalid, FieldLat)
		}
		if !isFinite(lon) {
			invalid = append(invalid, FieldLon)
		}
		if isFinite(lat) && isFinite(lon) {
			fix.Position = &Position{Latitude: lat, Longitude: lon}
		}
	}

	if rec.Speed != "" {
		m, ok := convertMeasurement(rec.Speed, unitOrDefault(rec.SpeedUnit, defaultSpeedUnit), units.Speed)
		if ok {
			fix.Speed = m
		} else {
			invalid = append(invalid, FieldSpeed)
		}
	}

	if rec.Course != "" {
		if v := navfield.ToFloat(rec.Course.String()); isFinite(v) {
			fix.CourseDeg = &v
		} else {
			invalid = append(invalid, FieldCourse)
		}
	}

	if rec.Distance != "" {
		m, ok := convertMeasurement(rec.Distance, unitOrDefault(rec.DistanceUnit, defaultDistanceUnit), units.Distance)
		if ok {
			fix.Distance = m
		} else {
			invalid = append(invalid, FieldDistance)
		}
	}

	if rec.Variation != "" {
		if v := navfield.ApplyPoleSign(rec.Variation.String(), rec.VariationPole); isFinite(v) {
			fix.MagneticVariation = &v
		} else {
			invalid = append(invalid, FieldVariation)
		}
	}

	fix.InvalidFields = invalid
	return fix
}

// EnrichNavFix stamps the processing time.
func EnrichNavFix(fix NavFix) NavFix {
	fix.ProcessedAt = clock.Now().UTC()
	return fix
}

// SerializeNavFix marshals a fix into an OutputEvent keyed by its ID.
func SerializeNavFix(fix NavFix) (OutputEvent, error) {
	data, err := json.Marshal(fix)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize nav fix: %w", err)
	}
	return OutputEvent{
		Key:   []byte(fix.ID),
		Value: data,
		Headers: map[string]string{
			"sentence_type": fix.SentenceType,
			"processed_at":  fix.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// NewSource tags a sentence as NMEA 0183 input to this service.
func NewSource(sentence string) Source {
	return Source{Type: SourceType, Label: SourceLabel, Sentence: sentence}
}

// IsPassThrough reports whether m kept its input unit because no conversion
// to want exists.
func IsPassThrough(m *Measurement, want string) bool {
	return m != nil && !strings.EqualFold(m.Unit, want)
}

// convertMeasurement converts a field and labels the result with the unit it
// actually ends up in: the requested unit, or the input unit when Convert
// passed the value through.
func convertMeasurement(f Field, in, out string) (*Measurement, bool) {
	v := navfield.Convert(f.String(), in, out)
	if !isFinite(v) {
		return nil, false
	}

	unit := strings.ToLower(out)
	if _, ok := navfield.Ratio(in, out); !ok && !strings.EqualFold(in, out) {
		unit = strings.ToLower(in)
	}
	return &Measurement{Value: v, Unit: unit}, true
}

func unitOrDefault(unit, fallback string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return fallback
	}
	return unit
}

// normalizeSentenceType strips the talker ID: "GPRMC" and "GNRMC" both become "RMC".
func normalizeSentenceType(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if len(value) > 3 {
		value = value[len(value)-3:]
	}
	return value
}

// generateID produces a deterministic ID from the record's identifying fields
// so that replaying a record yields the same ID.
func generateID(rec RawFieldRecord) string {
	sentenceType := normalizeSentenceType(rec.Type)
	input := strings.Join([]string{
		sentenceType,
		rec.Time.String(),
		rec.Date.String(),
		rec.Lat.String(),
		strings.ToUpper(rec.LatPole),
		rec.Lon.String(),
		strings.ToUpper(rec.LonPole),
	}, "|")
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if sentenceType == "" {
		return short
	}
	return strings.ToLower(sentenceType) + "-" + short
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
