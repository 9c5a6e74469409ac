package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	macho "github.com/appsworld/thinmacho"
	"github.com/appsworld/thinmacho/internal/colors"
	dwf "github.com/blacktop/go-dwarf"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cuNameColor = colors.Bold().SprintFunc()
var cuInfoColor = colors.FaintCyan().SprintfFunc()

func init() {
	rootCmd.AddCommand(dwarfCmd)
}

type compileUnit struct {
	Name     string
	Dir      string
	Producer string
	Lang     int64
}

// compileUnits walks the top level DWARF entries.
func compileUnits(d *dwf.Data) ([]compileUnit, error) {
	var cus []compileUnit
	r := d.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read DWARF entry")
		}
		if entry == nil {
			break
		}
		if entry.Tag != dwf.TagCompileUnit {
			r.SkipChildren()
			continue
		}
		var cu compileUnit
		cu.Name, _ = entry.Val(dwf.AttrName).(string)
		cu.Dir, _ = entry.Val(dwf.AttrCompDir).(string)
		cu.Producer, _ = entry.Val(dwf.AttrProducer).(string)
		cu.Lang, _ = entry.Val(dwf.AttrLanguage).(int64)
		cus = append(cus, cu)
		r.SkipChildren()
	}
	return cus, nil
}

// dwarfCmd represents the dwarf command
var dwarfCmd = &cobra.Command{
	Use:           "dwarf <macho|dSYM>",
	Short:         "List DWARF compile units",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dat, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", args[0])
		}
		m, err := macho.Parse(dat)
		if err != nil {
			return errors.Wrapf(err, "failed to parse %s", args[0])
		}
		d, err := m.DWARF(dat)
		if err != nil {
			return errors.Wrap(err, "failed to load DWARF")
		}
		cus, err := compileUnits(d)
		if err != nil {
			return err
		}
		if len(cus) == 0 {
			log.Warn("no compile units found")
			return nil
		}
		for _, cu := range cus {
			fmt.Printf("%s %s\n", cuNameColor(cu.Name), cuInfoColor("(dir=%s, lang=%#x)", cu.Dir, cu.Lang))
			if cu.Producer != "" {
				fmt.Printf("    %s\n", cu.Producer)
			}
		}
		return nil
	},
}
