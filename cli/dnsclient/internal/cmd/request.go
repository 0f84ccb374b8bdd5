package cmd

import (
	"fmt"
	"strconv"

	"github.com/asokol123/yggdrasil-dns/cli"
	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	return cli.NewRequestCommand(string(protocol.RegisterCommand), []string{"name"},
		"Register a name, publishing your public key as its owner.",
		func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, protocol.RegisterCommand, protocol.Params{
				protocol.FieldName: args[0],
			})
		})
}

func newSetSiteCmd() *cobra.Command {
	return cli.NewRequestCommand(string(protocol.SetSiteCommand),
		[]string{"site", "address", "expires", "owner"},
		"Publish or update the address of a site you own.",
		func(cmd *cobra.Command, args []string) error {
			fields, err := setSiteFields(args)
			if err != nil {
				return err
			}
			return runRequest(cmd, protocol.SetSiteCommand, fields)
		})
}

func newGetSiteCmd() *cobra.Command {
	return cli.NewRequestCommand(string(protocol.GetSiteCommand), []string{"site"},
		"Look up the address of a site.",
		func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, protocol.GetSiteCommand, protocol.Params{
				protocol.FieldSite: args[0],
			})
		})
}

// setSiteFields maps "site address expires owner" to request fields.
func setSiteFields(args []string) (protocol.Params, error) {
	expires, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return nil, &protocol.BuildError{
			Command: protocol.SetSiteCommand,
			Field:   protocol.FieldExpires,
			Err:     fmt.Errorf("not a unix timestamp: %q", args[2]),
		}
	}
	return protocol.Params{
		protocol.FieldSite:    args[0],
		protocol.FieldAddress: args[1],
		protocol.FieldExpires: expires,
		protocol.FieldOwner:   args[3],
	}, nil
}
