// Package cli provides builders for the cobra commands shared by the
// registry client executables.
package cli

import (
	"github.com/spf13/cobra"
)

// cobraCommand is used to implement any type of cobra command
// for any of the command-line tools and executables.
type cobraCommand interface {
	Build() *cobra.Command
}

// A RunFunc implements a command. A returned error is printed by
// ExecuteRoot and makes the process exit with a non-zero status.
type RunFunc func(cmd *cobra.Command, args []string) error
