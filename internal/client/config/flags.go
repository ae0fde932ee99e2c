package config

import (
	"flag"

	"github.com/dmitrijs2005/accountauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. Only
// -a and -t are looked at, so subcommand arguments pass through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "deadline for a single call")

	return fs.Parse(args)
}
