//go:build unit || !integration

package configflags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/lowfat-project/lfgen/pkg/logger"
)

func TestRegisterAndBind(t *testing.T) {
	mode := logger.LogModeDefault
	register := map[string][]Definition{
		"output":  OutputPathFlags,
		"linker":  LinkerFlags,
		"header":  HeaderFlags,
		"logging": LogFlags(&mode),
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, RegisterFlags(fs, register))

	v := viper.New()
	require.NoError(t, BindFlags(v, fs, register))
	require.NoError(t, fs.Parse([]string{
		"--sizes", "out/sizes.h",
		"--strip-directive", "SORT_NONE,KEEP_ORDER",
		"--suffix-threshold", "128",
		"-v",
	}))

	require.Equal(t, "out/sizes.h", v.GetString(SizesKey))
	require.Equal(t, "build/lowfat.ld", v.GetString(ScriptNameKey))
	require.Equal(t, []string{"SORT_NONE", "KEEP_ORDER"}, v.GetStringSlice(StripDirectiveKey))
	require.Equal(t, uint64(128), v.GetUint64(SuffixThresholdKey))
	require.True(t, v.GetBool(VerboseKey))
	require.Equal(t, "default", v.GetString(LogModeKey))
}

func TestLogTypeEnvironment(t *testing.T) {
	t.Setenv("LOG_TYPE", "json")
	mode := logger.LogModeDefault
	register := map[string][]Definition{"logging": LogFlags(&mode)}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, RegisterFlags(fs, register))

	v := viper.New()
	require.NoError(t, BindFlags(v, fs, register))
	require.Equal(t, "json", v.GetString(LogModeKey))
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v, map[string][]Definition{"config": ConfigFileFlags, "linker": LinkerFlags})
	require.Equal(t, "lf_config.json", v.GetString(ConfigKey))
	require.Equal(t, "ld", v.GetString(LinkerKey))
	require.False(t, v.GetBool(NoAssertionsKey))
}

func TestRegisterRejectsUnknownType(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := RegisterFlags(fs, map[string][]Definition{
		"bad": {{FlagName: "ratio", DefaultValue: 0.5}},
	})
	require.Error(t, err)
}
