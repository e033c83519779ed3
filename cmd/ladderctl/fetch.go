package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tturner/ladderctl/internal/errors"
	"github.com/tturner/ladderctl/internal/transport"
)

func newFetchCmd() *cobra.Command {
	var sshSpec, remotePath string

	cmd := &cobra.Command{
		Use:   "fetch [local-program.json]",
		Short: "Pull a ladder program document from a remote controller over SFTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := transport.Parse(sshSpec)
			if err != nil {
				return fmt.Errorf("parse --ssh target: %w", err)
			}
			defer t.Close()

			ctx := context.Background()
			if err := t.Get(ctx, remotePath, args[0]); err != nil {
				return errors.WrapRemoteDeployError(err, sshSpec)
			}
			fmt.Printf("fetched %s to %s (%s)\n", remotePath, args[0], t.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&sshSpec, "ssh", "", "remote target, e.g. user@host or ssh://user@host:port")
	cmd.Flags().StringVar(&remotePath, "remote-path", "/etc/ladderctl/program.json", "program document path on the remote controller")
	cmd.MarkFlagRequired("ssh")
	return cmd
}
