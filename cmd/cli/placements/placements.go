package placements

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/kubectl/pkg/util/i18n"

	"github.com/lowfat-project/lfgen/cmd/util"
	"github.com/lowfat-project/lfgen/cmd/util/flags/cliflags"
	"github.com/lowfat-project/lfgen/cmd/util/output"
	"github.com/lowfat-project/lfgen/cmd/util/templates"
	"github.com/lowfat-project/lfgen/pkg/lowfat/generator"
	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
	"github.com/lowfat-project/lfgen/pkg/lowfat/linkerscript"
)

var (
	placementsLong = templates.LongDesc(i18n.T(`
		Print the output sections the linker script places globals in.

		Every size class has a mutable and a read-only section, each taking
		half of the global part of the size class region.
`))

	placementsExample = templates.Examples(i18n.T(`
		# Print the sections for lf_config.json
		lfgen placements

		# Print the sections as JSON
		lfgen placements --output json --pretty
`))
)

// Section is one placement as printed.
type Section struct {
	Name        string `json:"name"`
	SizeClass   uint64 `json:"size_class"`
	Base        string `json:"base"`
	Capacity    uint64 `json:"capacity"`
	CapacityGiB string `json:"capacity_gib"`
	ReadOnly    bool   `json:"read_only"`
}

func newSection(p geometry.Placement) Section {
	return Section{
		Name:        p.SectionName(),
		SizeClass:   p.SizeClass,
		Base:        "0x" + strconv.FormatUint(p.Base, 16),
		Capacity:    p.Capacity,
		CapacityGiB: linkerscript.FormatGiB(p.Capacity),
		ReadOnly:    p.ReadOnly,
	}
}

type PlacementsOptions struct {
	OutputOpts output.OutputOptions
}

func NewPlacementsOptions() *PlacementsOptions {
	return &PlacementsOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd(v *viper.Viper) *cobra.Command {
	o := NewPlacementsOptions()

	placementsCmd := &cobra.Command{
		Use:     "placements",
		Short:   "Print the global sections of a configuration",
		Long:    placementsLong,
		Example: placementsExample,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := o.Run(cmd, util.GeneratorOptions(v)); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}

	placementsCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&o.OutputOpts))
	return placementsCmd
}

var placementColumns = []output.TableColumn[Section]{
	{
		ColumnConfig: table.ColumnConfig{Name: "section"},
		Value:        func(s Section) string { return s.Name },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "base"},
		Value:        func(s Section) string { return s.Base },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "capacity", Align: text.AlignRight},
		Value:        func(s Section) string { return strconv.FormatUint(s.Capacity, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "GiB", Align: text.AlignRight},
		Value:        func(s Section) string { return s.CapacityGiB },
	},
}

func (o *PlacementsOptions) Run(cmd *cobra.Command, opts generator.Options) error {
	plan, err := generator.Prepare(opts)
	if err != nil {
		return err
	}
	sections := make([]Section, 0, len(plan.Layout.Placements()))
	for _, p := range plan.Layout.Placements() {
		sections = append(sections, newSection(p))
	}
	return output.Output(cmd, placementColumns, o.OutputOpts, sections)
}
