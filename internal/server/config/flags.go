package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/groupboard/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-p string   port for both listening sockets (e.g. "58001")
//	-v          verbose mode: log every request
//	-d string   attachment staging directory
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components (the -c/-config
// flag is consumed by the JSON loader).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-v", "-d"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.Port, "p", config.Port, "port to listen on")
	fs.BoolVar(&config.Verbose, "v", config.Verbose, "verbose request logging")
	fs.StringVar(&config.FilesDir, "d", config.FilesDir, "attachment directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
