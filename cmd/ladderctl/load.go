package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "load [program.json]",
		Short: "Send a program document to a running controller's admin listener",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var compact bytes.Buffer
			if err := json.Compact(&compact, data); err != nil {
				return fmt.Errorf("program document is not valid JSON: %w", err)
			}
			data = compact.Bytes()

			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer conn.Close()

			if _, err := fmt.Fprintf(conn, "PROGRAM\n%s\n", data); err != nil {
				return fmt.Errorf("send program: %w", err)
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
