package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/groupboard/internal/flagx"
)

// parseFlags populates client Config fields from command-line flags.
//
// Supported flags:
//
//	-n string   host name or IP address of the server
//	-p string   port the server listens on
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components (the -c/-config
// flag is consumed by the JSON loader).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-p"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.Host, "n", config.Host, "server host or IP")
	fs.StringVar(&config.Port, "p", config.Port, "server port")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
