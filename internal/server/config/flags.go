package config

import (
	"flag"
	"strings"

	"github.com/dmitrijs2005/accountauth/internal/flagx"
)

// parseFlags overlays values from command-line flags.
//
//	-a string     gRPC bind address (e.g. ":50051")
//	-d string     PostgreSQL DSN
//	-x duration   reset token lifetime (e.g. "24h")
//	-t duration   per-request timeout
//	-k string     comma-separated Kafka brokers
//	-q string     Kafka topic for token events
//	-strict-email match forgot-password emails case-sensitively
//
// Unrecognised flags are filtered out first so other components may share
// the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-x", "-t", "-k", "-q", "-strict-email"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.DurationVar(&config.ResetTokenTTL, "x", config.ResetTokenTTL, "reset token lifetime")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "per-request timeout")
	brokers := fs.String("k", strings.Join(config.KafkaBrokers, ","), "comma-separated Kafka brokers")
	fs.StringVar(&config.KafkaTopic, "q", config.KafkaTopic, "Kafka topic for token events")
	fs.BoolVar(&config.CaseSensitiveResetLookup, "strict-email", config.CaseSensitiveResetLookup, "case-sensitive forgot-password lookup")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.KafkaBrokers = splitList(*brokers)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
