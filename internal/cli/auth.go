package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/secrets"
)

func newAuthCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Credential and config setup",
	}
	cmd.AddCommand(newAuthLoginCmd(opts))
	return cmd
}

func newAuthLoginCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Persist connection settings and store the password in the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cmd.Root().PersistentFlags().Changed("ssl") {
				cfg.SetTLS(opts.ssl)
			}
			if opts.server != "" {
				cfg.SetServer(opts.server)
			}
			if opts.username != "" {
				cfg.Auth.Username = opts.username
			}
			if cfg.Auth.Username == "" {
				return fmt.Errorf("username is required (--username)")
			}

			password := opts.password
			if password == "" {
				password, err = promptPassword(cfg.Auth.Username)
				if err != nil {
					return err
				}
			}

			if err := secrets.SetPassword(cfg.Auth.Username, password); err != nil {
				return err
			}

			// The password lives in the keyring only, never in the file.
			cfg.Auth.Password = ""
			path, err := config.Save(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Credentials stored. Config written to %s\n", path)
			return nil
		},
	}
	return cmd
}
