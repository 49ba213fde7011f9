package config

import (
	"flag"
	"io"

	"github.com/taskflow-app/taskflow/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-d string     PostgreSQL DSN, or "memory"
//	-s string     JWT HMAC secret key
//	-t duration   token validity (e.g., "24h")
//	-b int        bcrypt cost
//	-w string     static front-end directory
//	-l string     log format, "json" or "text"
//
// Other arguments (such as -c) are filtered out first so this parser does not
// trip over flags owned elsewhere.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-b", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static web directory")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json|text)")

	return fs.Parse(args)
}
