package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stencil/internal/builtin"
)

type entryListing struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Seed  string `json:"seed"`
	Shape string `json:"shape"`
	Doc   string `json:"doc,omitempty"`
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List the registered generation entries",
	RunE:  runEntries,
}

func init() {
	entriesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runEntries(cmd *cobra.Command, args []string) error {
	reg, manifest, err := loadRegistry()
	if err != nil {
		return err
	}

	docs := make(map[string]string)
	for _, spec := range builtin.Specs() {
		docs[spec.Name] = spec.Doc
	}

	listings := make([]entryListing, 0, reg.Len())
	for _, name := range reg.Names() {
		entry, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		listings = append(listings, entryListing{
			Name:  name,
			Kind:  entry.Config.Kind.String(),
			Seed:  entry.Config.Seed.String(),
			Shape: entry.Routine.Shape(),
			Doc:   docs[name],
		})
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	case "pretty":
		out := cmd.OutOrStdout()
		if manifest != nil && !quiet(cmd) {
			fmt.Fprintf(out, "manifest: %s\n\n", manifest.Path)
		}
		for _, l := range listings {
			fmt.Fprintf(out, "%-10s %-9s seed=%-10s shape=%s\n", l.Name, l.Kind, l.Seed, l.Shape)
			if l.Doc != "" {
				fmt.Fprintf(out, "           %s\n", l.Doc)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
