package main

import (
	"bufio"
	"fmt"
	"net"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Request the controller's current program document over the admin listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer conn.Close()

			if _, err := fmt.Fprint(conn, "/load\n"); err != nil {
				return fmt.Errorf("send /load: %w", err)
			}

			reply, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read reply: %w", err)
			}
			fmt.Print(reply)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9110", "controller admin listen address")
	return cmd
}
