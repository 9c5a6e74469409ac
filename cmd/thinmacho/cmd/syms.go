package cmd

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	macho "github.com/appsworld/thinmacho"
	"github.com/appsworld/thinmacho/internal/colors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

var symAddrColor = colors.Faint().SprintfFunc()
var symTypeColor = colors.FaintCyan().SprintfFunc()
var symLibColor = colors.FaintMagenta().SprintfFunc()
var symNameColor = colors.Bold().SprintFunc()

func init() {
	rootCmd.AddCommand(symsCmd)

	symsCmd.Flags().BoolP("imports", "i", false, "Only print imported (undefined) symbols")
	symsCmd.Flags().StringP("sort", "s", "", "Sort symbols by 'name' or 'addr'")
	viper.BindPFlag("syms.imports", symsCmd.Flags().Lookup("imports"))
	viper.BindPFlag("syms.sort", symsCmd.Flags().Lookup("sort"))
}

// sortSymbols orders syms in place. An empty key keeps symbol table order.
func sortSymbols(syms []macho.Symbol, by string) error {
	switch by {
	case "":
	case "name":
		slices.SortStableFunc(syms, func(a, b macho.Symbol) int {
			return strings.Compare(a.Name, b.Name)
		})
	case "addr":
		slices.SortStableFunc(syms, func(a, b macho.Symbol) int {
			return cmp.Compare(a.Value, b.Value)
		})
	default:
		return fmt.Errorf("invalid --sort value '%s' (must be 'name' or 'addr')", by)
	}
	return nil
}

// symbolSection names the section a symbol is defined in, if any.
func symbolSection(m *macho.File, s macho.Symbol) string {
	if !s.Type.IsDefinedInSection() || s.Sect == 0 || int(s.Sect) > len(m.Sections) {
		return ""
	}
	sec := m.Sections[s.Sect-1]
	return sec.Seg + "." + sec.Name
}

// symsCmd represents the syms command
var symsCmd = &cobra.Command{
	Use:           "syms <macho>",
	Aliases:       []string{"s"},
	Short:         "Dump the symbol table",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		onlyImports := viper.GetBool("syms.imports")
		sortBy := viper.GetString("syms.sort")

		m, err := macho.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to parse %s", args[0])
		}

		var syms []macho.Symbol
		if onlyImports {
			syms, err = m.ImportedSymbols()
			if err != nil {
				return errors.Wrap(err, "failed to get imported symbols")
			}
		} else {
			if m.Symtab == nil {
				return fmt.Errorf("%s has no LC_SYMTAB", args[0])
			}
			syms = slices.Clone(m.Symtab.Syms)
		}
		if err := sortSymbols(syms, sortBy); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		for _, s := range syms {
			if onlyImports {
				fmt.Fprintf(w, "%s\t%s\n", symNameColor(s.Name),
					symLibColor("(%s)", m.LibraryOrdinalName(s.Desc.GetLibraryOrdinal())))
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", symAddrColor("%#016x", s.Value),
				symTypeColor("<%s>", s.Type.String(symbolSection(m, s))), symNameColor(s.Name))
		}
		return w.Flush()
	},
}
