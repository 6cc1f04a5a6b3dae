package partials

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphaelreyna/liquette/pkg/partials"
)

// New returns the command listing the partial references of template files.
func New() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "partials file...",
		Short: "List the partial references found in template files",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "print raw matches of one kind: "+kindNames())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var k *partials.Kind
		if kind != "" {
			found, ok := parseKind(kind)
			if !ok {
				return fmt.Errorf("unknown kind %q, want one of %s", kind, kindNames())
			}
			k = &found
		}

		w := cmd.OutOrStdout()
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading template: %w", err)
			}

			if k != nil {
				for _, m := range partials.Find(*k, string(src)) {
					fmt.Fprintf(w, "%s\t%s\n", path, m)
				}
				continue
			}

			for _, ref := range partials.FindReferences(string(src)) {
				fmt.Fprintf(w, "%s\t%s\n", path, describe(ref))
			}
		}

		return nil
	}

	return cmd
}

func describe(ref partials.Reference) string {
	var sb strings.Builder
	sb.WriteString(ref.Name)
	if ref.StyleModifier != "" {
		sb.WriteString(":" + ref.StyleModifier)
	}
	if ref.Parameters != "" {
		sb.WriteString("(" + ref.Parameters + ")")
	}
	return sb.String()
}

func parseKind(s string) (partials.Kind, bool) {
	for _, k := range partials.Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func kindNames() string {
	names := make([]string, len(partials.Kinds))
	for i, k := range partials.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
