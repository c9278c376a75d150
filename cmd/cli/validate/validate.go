package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/kubectl/pkg/util/i18n"

	"github.com/lowfat-project/lfgen/cmd/util"
	"github.com/lowfat-project/lfgen/cmd/util/templates"
	"github.com/lowfat-project/lfgen/pkg/lowfat/config"
	"github.com/lowfat-project/lfgen/pkg/lowfat/generator"
)

var (
	validateLong = templates.LongDesc(i18n.T(`
		Validate a LowFat configuration file without writing anything.

		The document is checked against the configuration schema, then the
		region layout and the size-class tables are derived from it.
		JSON and YAML formats are accepted.
`))

	//nolint:lll // Documentation
	validateExample = templates.Examples(i18n.T(`
		# Validate the configuration given with --config (lf_config.json by default)
		lfgen validate

		# Validate a YAML configuration
		lfgen validate ./lf_config.yaml

		# Print the configuration schema
		lfgen validate --output-schema
`))
)

// ValidateOptions is the options for the validate command.
type ValidateOptions struct {
	OutputSchema bool
}

func NewValidateOptions() *ValidateOptions {
	return &ValidateOptions{}
}

func NewCmd(v *viper.Viper) *cobra.Command {
	o := NewValidateOptions()

	validateCmd := &cobra.Command{
		Use:     "validate [file]",
		Short:   "Validate a LowFat configuration file",
		Long:    validateLong,
		Example: validateExample,
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts := util.GeneratorOptions(v)
			if len(args) == 1 {
				opts.ConfigPath = args[0]
			}
			if err := o.Run(cmd, opts); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}

	validateCmd.Flags().BoolVar(&o.OutputSchema, "output-schema", o.OutputSchema, "Output the JSON schema for a LowFat configuration to stdout then exit")
	return validateCmd
}

func (o *ValidateOptions) Run(cmd *cobra.Command, opts generator.Options) error {
	if o.OutputSchema {
		schema, err := config.Schema()
		if err != nil {
			return err
		}
		cmd.Println(string(schema))
		return nil
	}

	doc, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("could not read config file '%s': %w", opts.ConfigPath, err)
	}
	msgs, err := config.ValidateDocument(doc, config.FormatFromPath(opts.ConfigPath))
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		return fmt.Errorf("the configuration is not valid:\n\t%s", strings.Join(msgs, "\n\t"))
	}

	if _, err := generator.Prepare(opts); err != nil {
		return err
	}
	cmd.Println("The configuration is valid")
	return nil
}
