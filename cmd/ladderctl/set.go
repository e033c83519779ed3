package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "set [ADDR] [VALUE]",
		Short: "Force a memory address on a running controller",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer conn.Close()

			if _, err := fmt.Fprintf(conn, "SET %s %s\n", args[0], args[1]); err != nil {
				return fmt.Errorf("send SET: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9110", "controller admin listen address")
	return cmd
}
