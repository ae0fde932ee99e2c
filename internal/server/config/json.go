package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "24h"-style strings or integer nanoseconds. Absent keys leave the
// corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrGRPC         string         `json:"endpoint_addr_grpc"`
	DatabaseDSN              string         `json:"database_dsn"`
	ResetTokenTTL            timex.Duration `json:"reset_token_ttl"`
	RequestTimeout           timex.Duration `json:"request_timeout"`
	CaseSensitiveResetLookup *bool          `json:"case_sensitive_reset_lookup"`
	KafkaBrokers             []string       `json:"kafka_brokers"`
	KafkaTopic               string         `json:"kafka_topic"`
}

// parseJson overlays values from the JSON file at path. An empty path is a no-op.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.ResetTokenTTL.Duration != 0 {
		config.ResetTokenTTL = c.ResetTokenTTL.Duration
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.CaseSensitiveResetLookup != nil {
		config.CaseSensitiveResetLookup = *c.CaseSensitiveResetLookup
	}
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	if c.KafkaTopic != "" {
		config.KafkaTopic = c.KafkaTopic
	}
	return nil
}
