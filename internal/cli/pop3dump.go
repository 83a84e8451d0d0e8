package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/pop3"
)

func newPOP3DumpCmd(opts *globalOptions) *cobra.Command {
	var outputFolder string

	cmd := &cobra.Command{
		Use:   "pop3-dump",
		Short: "Export the flat POP3 mailbox to .eml files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := config.ValidatePOP3(cfg); err != nil {
				return err
			}

			dumper := pop3.NewDumper(cfg)
			if err := dumper.DumpAll(outputFolder); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Mailbox %q dumped via pop3\n", cfg.Auth.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFolder, "output-folder", "o", "./pop3", "Destination directory")

	return cmd
}
