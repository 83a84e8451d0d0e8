package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/email"
	"github.com/lmsecure/email-dumper/internal/smtp"
)

func newSendMessageCmd(opts *globalOptions) *cobra.Command {
	var toAddress string
	var messageText string

	cmd := &cobra.Command{
		Use:   "send-message",
		Short: "Send a test message over SMTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := config.ValidateSMTP(cfg); err != nil {
				return err
			}

			msg, err := email.BuildMessage(email.ComposeInput{
				From: cfg.Auth.Username,
				To:   toAddress,
				Body: messageText,
			})
			if err != nil {
				return err
			}

			if err := smtp.Send(cfg, cfg.Auth.Username, []string{toAddress}, msg); err != nil {
				return fmt.Errorf("send message to %q: %w", toAddress, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Test message from %q to %q sent\n", cfg.Auth.Username, toAddress)
			return nil
		},
	}

	cmd.Flags().StringVarP(&toAddress, "to-address", "t", "", "Recipient address")
	cmd.Flags().StringVarP(&messageText, "message-text", "m", "There is test message", "Message body")
	_ = cmd.MarkFlagRequired("to-address")

	return cmd
}
