// Package domain models NMEA 0183 field records and the normalized fixes
// built from them.
//
// # Data Source
//
// An upstream tokenizer reads sentences from receivers, verifies framing and
// checksums, splits each sentence into named fields and publishes the fields
// as flat JSON to the Kafka source topic. This service never sees the raw
// frame except as the informational "sentence" field.
//
//	{"type":"GPRMC","time":"123519","date":"230394",
//	 "lat":"4807.038","lat_pole":"N","lon":"01131.000","lon_pole":"E",
//	 "speed":"022.4","course":"084.4","variation":"003.1","variation_pole":"W"}
//
// Numeric fields may arrive as JSON strings or numbers; see [Field].
//
// # NMEA Field Conventions
//
// Position:
//
//	Latitude ddmm.mmmm with N/S, longitude dddmm.mmmm with E/W.
//	S and W are negative in the output.
//
// Time and date:
//
//	hhmmss[.sss] and ddmmyy, UTC. Two-digit years below 73 are 20xx.
//	A record without a time or date is completed from the service clock.
//
// Speed and distance:
//
//	Speed defaults to knots and distance to nautical miles unless the record
//	names a unit (speed_unit / distance_unit). Both are converted to the
//	configured OutputUnits. A unit with no conversion is passed through and
//	labelled with its own unit.
//
// Magnetic variation:
//
//	Degrees with E/W. West is negative.
//
// # Invalid Fields
//
// Coercion never fails loudly. A field that does not coerce to a number is
// left out of the fix and its name is listed in NavFix.InvalidFields, so a
// single bad field never drops the rest of the record.
//
// # ID Generation
//
// Fix IDs are deterministic SHA-256 hashes of type|time|date|lat|lon and the
// hemisphere letters, so replaying the source topic produces the same IDs and
// downstream upserts stay idempotent. See [generateID].
package domain
