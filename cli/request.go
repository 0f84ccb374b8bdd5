package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// A requestCommand is used to create a command that sends one registry
// request built from its positional arguments.
type requestCommand struct {
	name    string
	args    []string
	short   string
	runFunc RunFunc
}

var _ cobraCommand = (*requestCommand)(nil)

// NewRequestCommand constructs a command called name taking exactly
// the positional arguments named in args.
func NewRequestCommand(name string, args []string, short string, runFunc RunFunc) *cobra.Command {
	reqCmd := &requestCommand{
		name:    name,
		args:    args,
		short:   short,
		runFunc: runFunc,
	}
	return reqCmd.Build()
}

// Build constructs the cobra.Command according to the
// RequestCommand's settings.
func (reqCmd *requestCommand) Build() *cobra.Command {
	use := reqCmd.name
	for _, a := range reqCmd.args {
		use += " <" + a + ">"
	}
	cmd := cobra.Command{
		Use:   use,
		Short: reqCmd.short,
		Long: reqCmd.short + `

The request is mined and signed locally, then sent to the registry.
Its HTTP status and response body are printed as received.`,
		Args:    cobra.ExactArgs(len(reqCmd.args)),
		Example: "  " + reqCmd.name + " " + strings.Join(reqCmd.args, " "),
		RunE:    reqCmd.runFunc,
	}
	return &cmd
}
