package tables

import (
	"strconv"

	"github.com/c2h5oh/datasize"
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
	"github.com/lowfat-project/lfgen/pkg/lowfat/header"
	"github.com/lowfat-project/lfgen/pkg/lowfat/sizeclass"
)

var (
	tablesLong = templates.LongDesc(i18n.T(`
		Print the size, mask and offset tables of the sizes header.

		Row i describes requests whose rounded size is 2^(64-i). Sizes above
		the largest allocation size have a zero size, mask and offset.
`))

	tablesExample = templates.Examples(i18n.T(`
		# Print the tables for lf_config.json
		lfgen tables

		# Print only the rows of the 16 byte class and above, as YAML
		lfgen tables --non-zero --output yaml
`))
)

// TablesOptions is the options for the tables command.
type TablesOptions struct {
	NonZero    bool
	OutputOpts output.OutputOptions
}

func NewTablesOptions() *TablesOptions {
	return &TablesOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd(v *viper.Viper) *cobra.Command {
	o := NewTablesOptions()

	tablesCmd := &cobra.Command{
		Use:     "tables",
		Short:   "Print the size-class tables of a configuration",
		Long:    tablesLong,
		Example: tablesExample,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := o.Run(cmd, util.GeneratorOptions(v)); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}

	tablesCmd.Flags().BoolVar(&o.NonZero, "non-zero", o.NonZero, "Only print the rows with a size class.")
	tablesCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&o.OutputOpts))
	return tablesCmd
}

var tableColumns = []output.TableColumn[sizeclass.Row]{
	{
		ColumnConfig: table.ColumnConfig{Name: "index", Align: text.AlignRight},
		Value:        func(r sizeclass.Row) string { return strconv.Itoa(r.Index) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "bit", Align: text.AlignRight},
		Value:        func(r sizeclass.Row) string { return strconv.Itoa(r.BitIndex) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "size", Align: text.AlignRight},
		Value:        func(r sizeclass.Row) string { return strconv.FormatUint(r.Size, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "human", Align: text.AlignRight},
		Value:        func(r sizeclass.Row) string { return HumanSize(r.Size) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "mask"},
		Value:        func(r sizeclass.Row) string { return header.FormatMask(r.Mask) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "offset", Align: text.AlignRight},
		Value:        func(r sizeclass.Row) string { return strconv.FormatInt(r.Offset, 10) },
	},
}

func (o *TablesOptions) Run(cmd *cobra.Command, opts generator.Options) error {
	plan, err := generator.Prepare(opts)
	if err != nil {
		return err
	}
	rows := plan.Tables.Rows()
	if o.NonZero {
		filtered := rows[:0]
		for _, r := range rows {
			if r.Size != 0 {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	return output.Output(cmd, tableColumns, o.OutputOpts, rows)
}

// HumanSize prints size with a binary unit, or "-" for a missing class.
func HumanSize(size uint64) string {
	if size == 0 {
		return "-"
	}
	return datasize.ByteSize(size).HR()
}
