package util

import (
	"github.com/spf13/viper"

	"github.com/lowfat-project/lfgen/cmd/util/flags/configflags"
	"github.com/lowfat-project/lfgen/pkg/lowfat/generator"
	"github.com/lowfat-project/lfgen/pkg/lowfat/linkerscript"
)

// GeneratorOptions reads the generator settings from flags, environment and
// defaults.
func GeneratorOptions(v *viper.Viper) generator.Options {
	opts := generator.DefaultOptions()
	opts.ConfigPath = v.GetString(configflags.ConfigKey)
	opts.SizesPath = v.GetString(configflags.SizesKey)
	opts.ScriptPath = v.GetString(configflags.ScriptNameKey)
	opts.LLDScriptPath = v.GetString(configflags.LLDScriptNameKey)
	opts.Header.SuffixThreshold = v.GetUint64(configflags.SuffixThresholdKey)
	opts.LinkerScript.Assertions = !v.GetBool(configflags.NoAssertionsKey)
	opts.Patch.StripDirectives = v.GetStringSlice(configflags.StripDirectiveKey)
	opts.Source = linkerscript.NewExecSource(v.GetString(configflags.LinkerKey))
	return opts
}
