package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/kubectl/pkg/util/i18n"

	"github.com/lowfat-project/lfgen/cmd/cli/placements"
	"github.com/lowfat-project/lfgen/cmd/cli/tables"
	"github.com/lowfat-project/lfgen/cmd/cli/validate"
	"github.com/lowfat-project/lfgen/cmd/cli/version"
	"github.com/lowfat-project/lfgen/cmd/util"
	"github.com/lowfat-project/lfgen/cmd/util/flags/configflags"
	"github.com/lowfat-project/lfgen/cmd/util/templates"
	"github.com/lowfat-project/lfgen/pkg/logger"
	pkgversion "github.com/lowfat-project/lfgen/pkg/version"
)

const envPrefix = "LFGEN"

var (
	rootLong = templates.LongDesc(i18n.T(`
		Use the LowFat config file to generate
		1) a header file describing (heap-/stack-/global-) region sizes and derived sizes, and
		2) a linker script to place globals in sections according to the sizes.

		The config file is JSON or YAML. Every flag can also be set with an
		LFGEN_ environment variable, e.g. LFGEN_LLD_SCRIPTNAME.
`))

	//nolint:lll // Documentation
	rootExample = templates.Examples(i18n.T(`
		# Generate src/sizes.h and build/lowfat.ld from lf_config.json
		lfgen

		# Also generate a complete linker script for lld
		lfgen --config lf_config.yaml --lld-scriptname build/lowfat_lld.ld
`))
)

// ShutdownSignals stop a running generation.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NewRootCmd builds the command tree around a fresh viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var logMode = logger.LogModeDefault
	persistent := map[string][]configflags.Definition{
		"config":  configflags.ConfigFileFlags,
		"logging": configflags.LogFlags(&logMode),
	}
	local := map[string][]configflags.Definition{
		"output": configflags.OutputPathFlags,
		"linker": configflags.LinkerFlags,
		"header": configflags.HeaderFlags,
	}
	configflags.SetDefaults(v, persistent)
	configflags.SetDefaults(v, local)

	rootCmd := &cobra.Command{
		Use:     "lfgen",
		Short:   "Generate the LowFat sizes header and linker scripts",
		Long:    rootLong,
		Example: rootExample,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := configflags.BindFlags(v, cmd.Flags(), persistent); err != nil {
				return err
			}
			mode, err := logger.ParseLogMode(v.GetString(configflags.LogModeKey))
			if err != nil {
				return err
			}
			logger.ConfigureLogging(mode)
			logger.SetVerbose(v.GetBool(configflags.VerboseKey))
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			if err := configflags.BindFlags(v, cmd.Flags(), local); err != nil {
				util.Fatal(cmd, err, 1)
				return
			}
			if err := generate(cmd.Context(), v); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}

	if err := configflags.RegisterFlags(rootCmd.PersistentFlags(), persistent); err != nil {
		panic("DEVELOPER ERROR: " + err.Error())
	}
	if err := configflags.RegisterFlags(rootCmd.Flags(), local); err != nil {
		panic("DEVELOPER ERROR: " + err.Error())
	}

	rootCmd.AddCommand(tables.NewCmd(v))
	rootCmd.AddCommand(placements.NewCmd(v))
	rootCmd.AddCommand(validate.NewCmd(v))
	rootCmd.AddCommand(version.NewCmd())

	return rootCmd
}

// Execute runs lfgen and exits non-zero on failure.
func Execute(buildVersion string) {
	if buildVersion != "" {
		pkgversion.GITVERSION = buildVersion
		if _, err := pkgversion.Get().Semver(); err != nil {
			log.Warn().Err(err).Msgf("Build version %q is not a semantic version", buildVersion)
		}
	}
	rootCmd := NewRootCmd()

	// Ensure commands are able to stop cleanly if someone presses ctrl+c
	ctx, cancel := signal.NotifyContext(context.Background(), ShutdownSignals...)
	defer cancel()
	rootCmd.SetContext(ctx)

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		util.Fatal(rootCmd, err, 1)
	}
}
