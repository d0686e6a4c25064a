package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/navfield-etl/internal/navfield"
)

// Sink names accepted by SINK.
const (
	SinkKafka = "kafka"
	SinkMQTT  = "mqtt"
)

const (
	minBatchSize = 1
	maxBatchSize = 1000
)

// Config holds all service settings, populated from environment variables
// and an optional YAML file named by CONFIG_FILE.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Units fixes are normalized into.
	SpeedUnit    string
	DistanceUnit string

	Sink string

	// MQTT sink configuration, used when Sink is "mqtt".
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
	MQTTQoS      byte
	MQTTRetained bool
	MQTTTimeout  time.Duration
}

// source resolves a setting from the environment first, then the config file.
type source struct {
	file map[string]string
}

// Load reads configuration from environment variables, applying values from
// CONFIG_FILE and then defaults where unset.
func Load() (*Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := src.positiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	flushInterval, err := src.positiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}
	mqttTimeout, err := src.positiveDuration("MQTT_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	batchSize, err := src.intInRange("BATCH_SIZE", "50", minBatchSize, maxBatchSize)
	if err != nil {
		return nil, err
	}
	qos, err := src.intInRange("MQTT_QOS", "1", 0, 2)
	if err != nil {
		return nil, err
	}
	retained, err := strconv.ParseBool(src.get("MQTT_RETAINED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT_RETAINED: %w", err)
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(src.get("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   src.get("KAFKA_SOURCE_TOPIC", "nmea-fields"),
		KafkaSinkTopic:     src.get("KAFKA_SINK_TOPIC", "normalized-nav-fixes"),
		KafkaGroupID:       src.get("KAFKA_GROUP_ID", "navfield-etl"),
		HTTPAddr:           src.get("HTTP_ADDR", ":8080"),
		LogLevel:           src.get("LOG_LEVEL", "info"),
		LogFormat:          src.get("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SpeedUnit:    strings.ToLower(src.get("SPEED_UNIT", navfield.MS)),
		DistanceUnit: strings.ToLower(src.get("DISTANCE_UNIT", navfield.KM)),

		Sink: strings.ToLower(src.get("SINK", SinkKafka)),

		MQTTBroker:   src.get("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTTopic:    src.get("MQTT_TOPIC", "navfield/fixes"),
		MQTTClientID: src.get("MQTT_CLIENT_ID", "navfield-etl"),
		MQTTQoS:      byte(qos),
		MQTTRetained: retained,
		MQTTTimeout:  mqttTimeout,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if !navfield.IsSpeedUnit(c.SpeedUnit) {
		return fmt.Errorf("invalid SPEED_UNIT %q", c.SpeedUnit)
	}
	if !navfield.IsDistanceUnit(c.DistanceUnit) {
		return fmt.Errorf("invalid DISTANCE_UNIT %q", c.DistanceUnit)
	}

	switch c.Sink {
	case SinkKafka:
		if c.KafkaSinkTopic == "" {
			return errors.New("KAFKA_SINK_TOPIC is required")
		}
	case SinkMQTT:
		if c.MQTTBroker == "" {
			return errors.New("MQTT_BROKER is required when SINK is mqtt")
		}
		if c.MQTTTopic == "" {
			return errors.New("MQTT_TOPIC is required when SINK is mqtt")
		}
	default:
		return fmt.Errorf("invalid SINK %q: must be %s or %s", c.Sink, SinkKafka, SinkMQTT)
	}
	return nil
}

// newSource loads the optional YAML overlay. Keys are the environment
// variable names in any case, e.g. "batch_size: 100" or "KAFKA_BROKERS: [a, b]".
func newSource(path string) (source, error) {
	if path == "" {
		return source{}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read CONFIG_FILE: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return source{}, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}

	file := make(map[string]string, len(raw))
	for k, v := range raw {
		file[strings.ToUpper(k)] = yamlScalar(v)
	}
	return source{file: file}, nil
}

// yamlScalar flattens a decoded YAML value to its environment form.
// Sequences become comma separated lists.
func yamlScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, yamlScalar(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

func (s source) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.file[key]; v != "" {
		return v
	}
	return fallback
}

func (s source) positiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(s.get(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func (s source) intInRange(key, fallback string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s.get(key, fallback))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}

// parseBrokers splits a comma separated broker list, dropping empty entries.
func parseBrokers(value string) []string {
	var brokers []string
	for _, b := range strings.Split(value, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
