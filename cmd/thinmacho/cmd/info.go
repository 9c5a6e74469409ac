package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/apex/log"
	macho "github.com/appsworld/thinmacho"
	"github.com/appsworld/thinmacho/internal/colors"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var titleColor = colors.BoldHiBlue().SprintFunc()
var segColor = colors.BoldGreen().SprintFunc()
var sizeColor = colors.Faint().SprintfFunc()

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("header", "d", false, "Print the mach header")
	infoCmd.Flags().BoolP("loads", "l", false, "Print the load commands")
	infoCmd.Flags().BoolP("json", "j", false, "Print the TOC as JSON")
	infoCmd.Flags().BoolP("yaml", "y", false, "Print the TOC as YAML")
	viper.BindPFlag("info.header", infoCmd.Flags().Lookup("header"))
	viper.BindPFlag("info.loads", infoCmd.Flags().Lookup("loads"))
	viper.BindPFlag("info.json", infoCmd.Flags().Lookup("json"))
	viper.BindPFlag("info.yaml", infoCmd.Flags().Lookup("yaml"))
}

type sectionInfo struct {
	Name   string   `json:"name" yaml:"name"`
	Type   string   `json:"type,omitempty" yaml:"type,omitempty"`
	Attrs  []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Addr   uint64   `json:"addr" yaml:"addr"`
	Size   uint64   `json:"size" yaml:"size"`
	Offset uint32   `json:"offset" yaml:"offset"`
}

type segmentInfo struct {
	Name     string        `json:"name" yaml:"name"`
	Addr     uint64        `json:"addr" yaml:"addr"`
	Memsz    uint64        `json:"memsz" yaml:"memsz"`
	Offset   uint64        `json:"offset" yaml:"offset"`
	Filesz   uint64        `json:"filesz" yaml:"filesz"`
	Prot     string        `json:"prot" yaml:"prot"`
	Maxprot  string        `json:"maxprot" yaml:"maxprot"`
	Sections []sectionInfo `json:"sections,omitempty" yaml:"sections,omitempty"`
}

type loadInfo struct {
	Command string `json:"cmd" yaml:"cmd"`
	Size    int    `json:"size" yaml:"size"`
	Value   string `json:"value" yaml:"value"`
}

// fileInfo is the serializable summary printed by `info --json/--yaml`.
type fileInfo struct {
	Path          string        `json:"path" yaml:"path"`
	Magic         string        `json:"magic" yaml:"magic"`
	CPU           string        `json:"cpu" yaml:"cpu"`
	SubCPU        string        `json:"subcpu" yaml:"subcpu"`
	Type          string        `json:"type" yaml:"type"`
	Flags         []string      `json:"flags" yaml:"flags"`
	UUID          string        `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	BuildVersion  string        `json:"build_version,omitempty" yaml:"build_version,omitempty"`
	SourceVersion string        `json:"source_version,omitempty" yaml:"source_version,omitempty"`
	EntryPoint    uint64        `json:"entry_point,omitempty" yaml:"entry_point,omitempty"`
	Segments      []segmentInfo `json:"segments,omitempty" yaml:"segments,omitempty"`
	Libraries     []string      `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	Rpaths        []string      `json:"rpaths,omitempty" yaml:"rpaths,omitempty"`
	Symbols       int           `json:"symbols" yaml:"symbols"`
	Loads         []loadInfo    `json:"loads" yaml:"loads"`
}

func newFileInfo(path string, m *macho.File) *fileInfo {
	fi := &fileInfo{
		Path:      path,
		Magic:     m.Magic.String(),
		CPU:       m.CPU.String(),
		SubCPU:    m.SubCPU.String(m.CPU),
		Type:      m.Type.String(),
		Flags:     m.Flags.List(),
		Libraries: m.ImportedLibraries(),
		Rpaths:    m.Rpaths(),
	}
	if u := m.UUID(); u != nil {
		fi.UUID = u.ID
	}
	if bv := m.BuildVersion(); bv != nil {
		fi.BuildVersion = bv.String()
	}
	if sv := m.SourceVersion(); sv != nil {
		fi.SourceVersion = sv.Version
	}
	if ep := m.EntryPoint(); ep != nil {
		fi.EntryPoint = ep.EntryOffset
	}
	if m.Symtab != nil {
		fi.Symbols = len(m.Symtab.Syms)
	}
	for _, seg := range m.Segments() {
		si := segmentInfo{
			Name:    seg.Name,
			Addr:    seg.Addr,
			Memsz:   seg.Memsz,
			Offset:  seg.Offset,
			Filesz:  seg.Filesz,
			Prot:    seg.Prot.String(),
			Maxprot: seg.Maxprot.String(),
		}
		for _, sec := range m.GetSectionsForSegment(seg.Name) {
			si.Sections = append(si.Sections, sectionInfo{
				Name:   sec.Name,
				Type:   sec.Flags.String(),
				Attrs:  sec.Flags.AttributesList(),
				Addr:   sec.Addr,
				Size:   sec.Size,
				Offset: sec.Offset,
			})
		}
		fi.Segments = append(fi.Segments, si)
	}
	for _, l := range m.Loads {
		fi.Loads = append(fi.Loads, loadInfo{
			Command: l.Command().String(),
			Size:    len(l.Raw()),
			Value:   l.String(),
		})
	}
	return fi
}

// openAll parses every path concurrently; results keep argument order.
func openAll(paths []string) ([]*macho.File, error) {
	files := make([]*macho.File, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			m, err := macho.Open(filepath.Clean(path))
			if err != nil {
				return errors.Wrapf(err, "failed to parse %s", path)
			}
			log.WithFields(log.Fields{
				"path":  path,
				"loads": len(m.Loads),
			}).Debug("Parsed MachO")
			files[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info <macho>...",
	Aliases:       []string{"i"},
	Short:         "Explore a MachO file",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		showHeader := viper.GetBool("info.header")
		showLoadCommands := viper.GetBool("info.loads")
		asJSON := viper.GetBool("info.json")
		asYAML := viper.GetBool("info.yaml")

		if asJSON && asYAML {
			return fmt.Errorf("you can only use one of --json or --yaml")
		}
		if !showHeader && !showLoadCommands {
			showHeader, showLoadCommands = true, true
		}

		files, err := openAll(args)
		if err != nil {
			return err
		}

		if asJSON || asYAML {
			var infos []*fileInfo
			for i, m := range files {
				infos = append(infos, newFileInfo(filepath.Clean(args[i]), m))
			}
			var out any = infos
			if len(infos) == 1 {
				out = infos[0]
			}
			var dat []byte
			if asJSON {
				dat, err = json.MarshalIndent(out, "", "  ")
			} else {
				dat, err = yaml.Marshal(out)
			}
			if err != nil {
				return errors.Wrap(err, "failed to marshal file info")
			}
			fmt.Println(string(dat))
			return nil
		}

		for i, m := range files {
			if len(files) > 1 {
				fmt.Printf("%s\n\n", titleColor(filepath.Clean(args[i])))
			}
			if showHeader {
				fmt.Println(m.FileHeader.String())
			}
			if showLoadCommands {
				fmt.Println(titleColor("Load Commands:"))
				fmt.Println(m.LoadsString())
				fmt.Println(titleColor("Segments:"))
				for _, seg := range m.Segments() {
					fmt.Printf("\t%-16s %s %s\n", segColor(seg.Name),
						sizeColor("file=%s", humanize.Bytes(seg.Filesz)),
						sizeColor("vm=%s", humanize.Bytes(seg.Memsz)))
				}
				fmt.Println()
			}
		}
		return nil
	},
}
