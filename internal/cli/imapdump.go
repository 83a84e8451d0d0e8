package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/imap"
)

func newIMAPDumpCmd(opts *globalOptions) *cobra.Command {
	var outputFolder string

	cmd := &cobra.Command{
		Use:   "imap-dump",
		Short: "Export every IMAP folder to .eml files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := config.ValidateIMAP(cfg); err != nil {
				return err
			}

			dumper := imap.NewDumper(cfg)
			if err := dumper.DumpAll(outputFolder); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Mailbox %q dumped via imap\n", cfg.Auth.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFolder, "output-folder", "o", "./imap", "Destination directory, one subdirectory per folder")

	return cmd
}
