package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"notarycalc/internal/fees"
)

// InitFeeCommands registers the offline fee schedule commands.
func InitFeeCommands(rootCmd *cobra.Command) {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the notary fee schedule",
		Args:  cobra.NoArgs,
		RunE:  runSchedule,
	}
	scheduleCmd.Flags().Bool("json", false, "Print the schedule as JSON")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price service lines read from a JSON file",
		Long: `quote reads service lines from a JSON file (or stdin with -f -) and prints the
priced breakdown, subtotal, VAT and total. The file holds either an array of lines
or an object with a "services" array, e.g.

  [{"type": "signature", "sub_type": "first"}, {"type": "translation", "words": 450}]`,
		Args: cobra.NoArgs,
		RunE: runQuote,
	}
	quoteCmd.Flags().StringP("file", "f", "", "Path to the JSON lines file, - for stdin")
	quoteCmd.Flags().Bool("json", false, "Print the quote as JSON")
	_ = quoteCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(scheduleCmd, quoteCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), fees.Schedule())
	}
	return printSchedule(cmd.OutOrStdout(), fees.Schedule())
}

func runQuote(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var raw []byte
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return fmt.Errorf("read lines: %w", err)
	}

	lines, err := decodeLines(raw)
	if err != nil {
		return err
	}
	q, err := fees.Calculate(lines)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), q)
	}
	return printQuote(cmd.OutOrStdout(), q)
}

// decodeLines accepts a bare array of lines or an object with a services array.
func decodeLines(raw []byte) ([]fees.Line, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fees.ErrNoServices
	}
	var lines []fees.Line
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &lines); err != nil {
			return nil, fmt.Errorf("decode lines: %w", err)
		}
		return lines, nil
	}
	var wrapped struct {
		Services []fees.Line `json:"services"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	if wrapped.Services == nil {
		return nil, errors.New(`decode lines: expected an array or an object with "services"`)
	}
	return wrapped.Services, nil
}

func printSchedule(w io.Writer, services []fees.Service) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSUB TYPE\tLABEL\tPRICE")
	for _, s := range services {
		for _, st := range s.SubTypes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Type, st.Value, st.Label, st.Price)
		}
		if s.CopyRate > 0 {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Type, "+copy", "each additional copy", s.CopyRate)
		}
	}
	fmt.Fprintf(tw, "\t\tVAT\t%d%%\n", fees.VATPercent)
	return tw.Flush()
}

func printQuote(w io.Writer, q *fees.Quote) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, l := range q.Lines {
		fmt.Fprintf(tw, "%d. %s\t\t%s\n", i+1, lineTitle(l), l.Cost)
		for _, it := range l.Items {
			fmt.Fprintf(tw, "   %s\t%s\t%s\n", it.Text, it.Calc, it.Amount)
		}
	}
	fmt.Fprintf(tw, "Subtotal\t\t%s\n", q.Subtotal)
	fmt.Fprintf(tw, "VAT %d%%\t\t%s\n", fees.VATPercent, q.VAT)
	fmt.Fprintf(tw, "Total\t\t%s\n", q.Total)
	return tw.Flush()
}

func lineTitle(l fees.PricedLine) string {
	if l.Description != "" {
		return l.Description
	}
	if l.SubType != "" {
		return string(l.Type) + "/" + l.SubType
	}
	return string(l.Type)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
