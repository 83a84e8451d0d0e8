package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	server   string
	username string
	password string
	ssl      bool
}

func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "email-dumper",
		Short:        "email-dumper exports a mailbox over IMAP or POP3 and sends test mail over SMTP",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.server, "server", "", "Mail server host")
	pf.StringVarP(&opts.username, "username", "u", "", "Account username")
	pf.StringVarP(&opts.password, "password", "P", "", "Account password")
	pf.BoolVar(&opts.ssl, "ssl", true, "Use TLS; --ssl=false for plaintext")

	cmd.AddCommand(newIMAPDumpCmd(opts))
	cmd.AddCommand(newPOP3DumpCmd(opts))
	cmd.AddCommand(newSendMessageCmd(opts))
	cmd.AddCommand(newAuthCmd(opts))

	cmd.SetErr(os.Stderr)
	cmd.SetOut(os.Stdout)

	return cmd
}

func Execute() {
	for _, segment := range splitChain(os.Args[1:], chainableCommands) {
		cmd := NewRootCmd()
		cmd.SetArgs(segment)
		if err := cmd.Execute(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
