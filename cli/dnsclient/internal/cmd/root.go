package cmd

import (
	"github.com/asokol123/yggdrasil-dns/cli"
	"github.com/asokol123/yggdrasil-dns/protocol/pow"
	"github.com/spf13/cobra"
)

const appName = "dnsclient"

// NewRootCmd returns the "dnsclient" command with all subcommands
// (init, register, set_site, get_site, ...) attached.
func NewRootCmd() *cobra.Command {
	root := cli.NewRootCommand(appName,
		"Client for the proof-of-work protected site registry",
		`dnsclient builds registry requests, solves their proof-of-work,
signs them with your key and sends them to the registry.

Global flags override the values of the config file.`)

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "config.toml", "Config file for the client")
	flags.StringP("endpoint", "e", "", "Registry address, host:port or URL")
	flags.DurationP("timeout", "t", 0, "Timeout of a registry request")
	flags.IntP("pow-zeros", "z", pow.DefaultDifficulty, "Leading hex zeros to mine for")
	flags.IntP("workers", "w", 1, "Parallel mining workers")
	flags.BoolP("debug", "d", false, "Turn on debug logging")
	flags.Bool("strict", false, "Exit with an error on a non-success response")

	root.AddCommand(
		newInitCmd(),
		newRegisterCmd(),
		newSetSiteCmd(),
		newGetSiteCmd(),
		newCachedCmd(),
		newVerifyCmd(),
		newRunCmd(),
		cli.NewVersionCommand(appName),
	)
	return root
}
