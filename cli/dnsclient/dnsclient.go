// Executable registry client. Run "dnsclient help" for usage.
package main

import (
	"github.com/asokol123/yggdrasil-dns/cli"
	"github.com/asokol123/yggdrasil-dns/cli/dnsclient/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.NewRootCmd())
}
