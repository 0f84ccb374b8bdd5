package cmd

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/asokol123/yggdrasil-dns/cli"
	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

const help = "- register <name>:\r\n" +
	"	Register a name with your public key.\r\n" +
	"- set_site <site> <address> <expires> <owner>:\r\n" +
	"	Publish or update the address of a site you own.\r\n" +
	"- get_site <site>:\r\n" +
	"	Look up the address of a site.\r\n" +
	"- cached [site]:\r\n" +
	"	Show cached lookups without contacting the registry.\r\n" +
	"- enable timestamp:\r\n" +
	"	Print timestamp of format <15:04:05.999999999> along with the result.\r\n" +
	"- disable timestamp:\r\n" +
	"	Disable timestamp printing.\r\n" +
	"- help:\r\n" +
	"	Display this message.\r\n" +
	"- exit, q:\r\n" +
	"	Close the REPL and exit the client."

func newRunCmd() *cobra.Command {
	cmd := cli.NewRunCommand("registry client",
		"Run gives you a REPL, so that you can send several requests with "+
			"one loaded config and credential. Currently, it supports:\n"+help,
		runREPL)
	cmd.Flags().Bool("timestamps", false, "Print a timestamp with every result")
	return cmd
}

func runREPL(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	printTimestamp, _ := cmd.Flags().GetBool("timestamps")

	var rw io.ReadWriter = struct {
		io.Reader
		io.Writer
	}{cmd.InOrStdin(), cmd.OutOrStdout()}
	if fd := int(os.Stdin.Fd()); cmd.InOrStdin() == os.Stdin && terminal.IsTerminal(fd) {
		state, err := terminal.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer terminal.Restore(fd, state)
	}
	term := terminal.NewTerminal(rw, "dnsclient> ")
	s.repl(cmd.Context(), term, printTimestamp)
	return nil
}

// repl reads commands from term until exit or end of input.
func (s *session) repl(ctx context.Context, term *terminal.Terminal, printTimestamp bool) {
	for {
		line, err := term.ReadLine()
		if err != nil {
			if err != io.EOF {
				writeLineInRawMode(term, err.Error(), printTimestamp)
			}
			return
		}

		args := strings.Fields(line)
		if len(args) < 1 {
			writeLineInRawMode(term, `[!] Type "help" for more information.`, printTimestamp)
			continue
		}

		switch args[0] {
		case "exit", "q":
			writeLineInRawMode(term, "[+] See ya.", printTimestamp)
			return
		case "help":
			writeLineInRawMode(term, help, false)
		case "enable", "disable":
			if len(args) != 2 || args[1] != "timestamp" {
				writeLineInRawMode(term, "[!] Unrecognized command: "+line, printTimestamp)
				continue
			}
			printTimestamp = args[0] == "enable"
		case "cached":
			writeLineInRawMode(term, s.replCached(args[1:]), printTimestamp)
		default:
			writeLineInRawMode(term, s.replRequest(ctx, args), printTimestamp)
		}
	}
}

// replRequest runs one registry command given as "name arg...".
func (s *session) replRequest(ctx context.Context, args []string) string {
	pcmd, err := protocol.ParseCommand(args[0])
	if err != nil {
		return "[!] Unrecognized command: " + args[0]
	}
	want := len(pcmd.RequiredFields())
	if len(args)-1 != want {
		return "[!] Incorrect number of args to " + args[0] + "."
	}

	var fields protocol.Params
	switch pcmd {
	case protocol.RegisterCommand:
		fields = protocol.Params{protocol.FieldName: args[1]}
	case protocol.SetSiteCommand:
		fields, err = setSiteFields(args[1:])
		if err != nil {
			return "[!] " + err.Error()
		}
	case protocol.GetSiteCommand:
		fields = protocol.Params{protocol.FieldSite: args[1]}
	}

	res, err := s.execute(ctx, pcmd, fields)
	if err != nil {
		return "[!] " + err.Error()
	}
	mark := "[+] "
	if !res.Success() {
		mark = "[!] "
	}
	return mark + describe(res)
}

func (s *session) replCached(args []string) string {
	if len(args) > 1 {
		return "[!] Incorrect number of args to cached."
	}
	var buf strings.Builder
	out := s.out
	s.out = &buf
	defer func() { s.out = out }()

	var err error
	if len(args) == 1 {
		err = s.showCached(args[0])
	} else {
		err = s.listCached()
	}
	if err != nil {
		return "[!] " + err.Error()
	}
	if buf.Len() == 0 {
		return "[+] No cached lookups."
	}
	return "[+] " + strings.ReplaceAll(strings.TrimSuffix(buf.String(), "\n"), "\n", "\r\n    ")
}

// describe renders a response on one line.
func describe(res *protocol.Response) string {
	msg := "Status: " + statusLine(res) + ", Response: " + string(res.Body)
	if res.Site != nil {
		msg += ", Address: " + res.Site.Address
	}
	return msg
}

// append "\r\n" to msg and then write to terminal in raw mode.
func writeLineInRawMode(term *terminal.Terminal, msg string, printTimestamp bool) {
	if printTimestamp {
		term.Write([]byte("<" + time.Now().Format("15:04:05.999999999") + "> "))
	}
	term.Write([]byte(msg + "\r\n"))
}
