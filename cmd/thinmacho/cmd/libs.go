package cmd

import (
	"encoding/json"
	"fmt"

	macho "github.com/appsworld/thinmacho"
	"github.com/appsworld/thinmacho/internal/colors"
	"github.com/appsworld/thinmacho/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var libKindColor = colors.FaintCyan().SprintFunc()
var libVerColor = colors.Faint().SprintfFunc()

func init() {
	rootCmd.AddCommand(libsCmd)

	libsCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	viper.BindPFlag("libs.json", libsCmd.Flags().Lookup("json"))
}

type libInfo struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Current string `json:"current_version"`
	Compat  string `json:"compatibility_version"`
}

// libraries lists every dylib command, including the image's own LC_ID_DYLIB.
func libraries(m *macho.File) []libInfo {
	var libs []libInfo
	add := func(cmd types.LoadCmd, d *macho.Dylib) {
		libs = append(libs, libInfo{
			Kind:    cmd.String(),
			Name:    d.Name,
			Current: d.CurrentVersion,
			Compat:  d.CompatVersion,
		})
	}
	for _, l := range m.Loads {
		switch lib := l.(type) {
		case *macho.Dylib:
			add(l.Command(), lib)
		case *macho.DylibID:
			add(l.Command(), (*macho.Dylib)(lib))
		case *macho.WeakDylib:
			add(l.Command(), (*macho.Dylib)(lib))
		case *macho.ReExportDylib:
			add(l.Command(), (*macho.Dylib)(lib))
		case *macho.LazyLoadDylib:
			add(l.Command(), (*macho.Dylib)(lib))
		case *macho.UpwardDylib:
			add(l.Command(), (*macho.Dylib)(lib))
		}
	}
	return libs
}

// libsCmd represents the libs command
var libsCmd = &cobra.Command{
	Use:           "libs <macho>",
	Aliases:       []string{"l"},
	Short:         "List linked libraries and run paths",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := macho.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to parse %s", args[0])
		}

		libs := libraries(m)
		rpaths := m.Rpaths()

		if viper.GetBool("libs.json") {
			dat, err := json.MarshalIndent(struct {
				Libraries []libInfo `json:"libraries"`
				Rpaths    []string  `json:"rpaths,omitempty"`
			}{libs, rpaths}, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal libraries")
			}
			fmt.Println(string(dat))
			return nil
		}

		for _, lib := range libs {
			fmt.Printf("%-22s %s %s\n", libKindColor(lib.Kind), lib.Name,
				libVerColor("(compatibility version %s, current version %s)", lib.Compat, lib.Current))
		}
		if len(rpaths) > 0 {
			fmt.Println()
			for _, rpath := range rpaths {
				fmt.Printf("%-22s %s\n", libKindColor(types.LC_RPATH.String()), rpath)
			}
		}
		return nil
	},
}
