package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/spf13/cobra"
)

func newNameCmd() *cobra.Command {
	var showCanonical bool
	cmd := &cobra.Command{
		Use:   "name [PAIRS...]",
		Short: "Name patterns given as [low, high] pair lists",
		Long: `Print the canonical name of each pattern.

Patterns are JSON arrays of [low, high] pairs, read from the arguments or, when
none are given, one per line from stdin. Each pattern is shifted so its
smallest low is 0 and canonicalized before naming, so every image of the same
pattern gets the same name.

Examples:
  agnr name '[[0,4],[1,5]]'
  agnr generate -f pairs | agnr name`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := statusPrinter(cmd)

			var lines []string
			if len(args) > 0 {
				lines = args
			} else {
				var err error
				if lines, err = readLines(cmd.InOrStdin()); err != nil {
					return p.Error("failed to read stdin", err.Error(), nil)
				}
			}

			out := cmd.OutOrStdout()
			for i, line := range lines {
				c, name, err := nameOf(line)
				if err != nil {
					return p.ErrorWithContext(
						"invalid pattern",
						err.Error(),
						map[string]string{"Input": fmt.Sprintf("#%d %s", i+1, line)},
						[]string{"Each pattern must be a periodic [[low,high],...] list, e.g. [[0,4],[1,5]]"},
					)
				}
				if showCanonical {
					pairs, _ := ribbon.MarshalPairs(c.Spec)
					fmt.Fprintf(out, "%s %s\n", name, pairs)
				} else {
					fmt.Fprintln(out, name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showCanonical, "canonical", "c", false, "Also print the canonical pair list")
	return cmd
}

// nameOf parses, normalizes and canonicalizes one pair list.
func nameOf(line string) (ribbon.Canonical, string, error) {
	spec, err := ribbon.ParsePairs([]byte(line))
	if err != nil {
		return ribbon.Canonical{}, "", err
	}
	spec.Normalize()

	c, err := ribbon.Canonicalize(spec)
	if err != nil {
		return ribbon.Canonical{}, "", err
	}
	name, err := ribbon.Name(c.Spec)
	if err != nil {
		return ribbon.Canonical{}, "", err
	}
	return c, name, nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func newDecodeCmd() *cobra.Command {
	var asRecord bool
	cmd := &cobra.Command{
		Use:   "decode NAME...",
		Short: "Print the pair list for pattern names",
		Long: `Decode pattern names back into [low, high] pair lists.

With --record, print the full JSON record of each pattern's canonical form,
including its symmetries.

Examples:
  agnr decode 415
  agnr decode --record 415 4152615`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := statusPrinter(cmd)
			out := cmd.OutOrStdout()

			for _, name := range args {
				spec, err := ribbon.ParseName(name)
				if err != nil {
					return p.Error("invalid name", err.Error(), []string{"Names have an odd number of base-36 digits, e.g. 415"})
				}

				if !asRecord {
					pairs, err := ribbon.MarshalPairs(spec)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n", pairs)
					continue
				}

				c, err := ribbon.Canonicalize(spec)
				if err != nil {
					return p.Error("not a valid pattern", fmt.Sprintf("%s decodes to %v: %v", name, spec, err), nil)
				}
				data, err := json.Marshal(ribbon.NewRecord(c))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", data)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asRecord, "record", false, "Print the canonical JSON record instead of the pair list")
	return cmd
}
