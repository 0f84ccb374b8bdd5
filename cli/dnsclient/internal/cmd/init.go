package cmd

import (
	"fmt"
	"path/filepath"

	clientapp "github.com/asokol123/yggdrasil-dns/application/client"
	"github.com/asokol123/yggdrasil-dns/cli"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := cli.NewInitCommand("the registry client", mkConfig)
	cmd.Flags().String("dir", ".", "Location of directory for storing generated files")
	return cmd
}

func mkConfig(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	file := filepath.Join(dir, "config.toml")

	conf := clientapp.NewConfig(file, "toml")
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		conf.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("pow-zeros") {
		conf.PowZeros, _ = flags.GetInt("pow-zeros")
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if err := conf.Save(); err != nil {
		return fmt.Errorf("Couldn't save config. Error message: [%v]", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", file)
	return nil
}
