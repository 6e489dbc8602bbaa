package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kiwari-pos/stockbook/internal/app"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/spf13/cobra"
)

func exportCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write products, orders and statistics to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(commandContext(cmd), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			doc := a.Session.Export()
			body, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(append(body, '\n'))
				return err
			}
			if out == "" {
				out = inventory.ExportFilename(doc.ExportedAt)
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products and %d orders to %s\n", len(doc.Products), len(doc.Orders), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file (default data_YYYYMMDD_HHMM.json, "-" for stdout)`)
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace stored data with the contents of an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			a, err := app.New(commandContext(cmd), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			pending, err := a.Session.RequestImport(raw)
			if err != nil {
				return err
			}
			return settle(cmd, a.Session, pending, yes,
				fmt.Sprintf("Import %s from %s? Existing data will be replaced.", pending.Subject, args[0]))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func resetCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all products, orders and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(commandContext(cmd), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			pending := a.Session.RequestReset()
			return settle(cmd, a.Session, pending, yes, "Delete ALL data? This cannot be undone.")
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// settle confirms pending after asking, or straight away with yes.
func settle(cmd *cobra.Command, session *service.Session, pending service.PendingConfirmation, yes bool, question string) error {
	if !yes {
		ok, err := askYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), question)
		if err != nil {
			return err
		}
		if !ok {
			if err := session.Cancel(pending.Token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if _, err := session.Confirm(commandContext(cmd), pending.Token); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Done.")
	return nil
}

// askYesNo prints question with a [y/N] suffix and reads one line.
func askYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
