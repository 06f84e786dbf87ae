package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"cryptovault/internal/fn"
	"cryptovault/pkg/appdir"
	"cryptovault/pkg/log"
	"cryptovault/pkg/server"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "cryptovault",
		Usage:   "Caesar cipher service and command line tools",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file `PATH` or bare name searched in ., /etc/cryptovault, ~/.cryptovault",
				EnvVars: []string{"CRYPTOVAULT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "zerolog level (debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			log.SetStd()
			if lvl := c.String("log-level"); lvl != "" {
				if err := log.SetLevel(lvl); err != nil {
					return cli.Exit(err.Error(), 2)
				}
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand,
			encryptCommand,
			decryptCommand,
			remoteCommand,
			interactiveCommand,
			ctlCommand,
			logsCommand,
		},
	}
}

// loadConfig reads the configuration and applies the global --log-level.
func loadConfig(c *cli.Context) (*server.Config, error) {
	cfg, err := server.LoadConfig(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error loading configuration: %v", err), 1)
	}
	cfg.LogLevel = fn.Coalesce(c.String("log-level"), cfg.LogLevel)
	cfg.ManagementSocket = appdir.Path(cfg.ManagementSocket)
	return cfg, nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
