package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/gregLibert/emv-reader/pkg/emv"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
	warnColor   = color.New(color.FgRed)
)

// printSummary writes the interpreted fields in registry order, then the
// decoded record.
func printSummary(w io.Writer, s *emv.CardSummary) {
	headerColor.Fprintln(w, "=== CARD SUMMARY ===")
	fmt.Fprintf(w, "Raw: %s\n", s.RawResponse)
	if s.StatusWord != "" {
		fmt.Fprintf(w, "SW:  %s\n", s.StatusWord)
	}
	if s.Truncated {
		warnColor.Fprintln(w, "Response truncated: trailing bytes ignored")
	}

	fmt.Fprintln(w)
	headerColor.Fprintln(w, "Interpreted fields")
	n := 0
	for _, def := range emv.Definitions() {
		v, ok := s.Field(def.ID)
		if !ok {
			continue
		}
		labelColor.Fprintf(w, "  %-40s", fmt.Sprintf("%s (%s)", def.Description, def.Code))
		fmt.Fprintf(w, " %s\n", v)
		n++
	}
	if n == 0 {
		fmt.Fprintln(w, "  none")
	}

	fmt.Fprintln(w)
	headerColor.Fprintln(w, "Decoded elements")
	s.Record.Range(func(key, value string) {
		labelColor.Fprintf(w, "  %-40s", key)
		fmt.Fprintf(w, " %s\n", value)
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
