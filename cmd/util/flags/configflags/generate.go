package configflags

import (
	"github.com/lowfat-project/lfgen/pkg/lowfat/generator"
	"github.com/lowfat-project/lfgen/pkg/lowfat/header"
	"github.com/lowfat-project/lfgen/pkg/lowfat/linkerscript"
)

const (
	ConfigKey          = "config"
	SizesKey           = "sizes"
	ScriptNameKey      = "scriptname"
	LLDScriptNameKey   = "lld-scriptname"
	LinkerKey          = "linker"
	StripDirectiveKey  = "strip-directive"
	SuffixThresholdKey = "suffix-threshold"
	NoAssertionsKey    = "no-assertions"
)

var ConfigFileFlags = []Definition{
	{
		FlagName:     "config",
		DefaultValue: generator.DefaultConfigPath,
		ConfigPath:   ConfigKey,
		Description:  `Configuration for which the sizes header and the linker script should be generated.`,
	},
}

var OutputPathFlags = []Definition{
	{
		FlagName:     "sizes",
		DefaultValue: generator.DefaultSizesPath,
		ConfigPath:   SizesKey,
		Description:  `The path of the generated file that describes the LowFat sizes.`,
	},
	{
		FlagName:     "scriptname",
		DefaultValue: generator.DefaultScriptPath,
		ConfigPath:   ScriptNameKey,
		Description:  `The path of the generated linker script file. Empty to skip it.`,
	},
	{
		FlagName:     "lld-scriptname",
		DefaultValue: "",
		ConfigPath:   LLDScriptNameKey,
		Description:  `The path of the generated linker script for lld: the default script of --linker with the LowFat sections. Empty to skip it.`,
	},
}

var LinkerFlags = []Definition{
	{
		FlagName:     "linker",
		DefaultValue: linkerscript.DefaultLinker,
		ConfigPath:   LinkerKey,
		Description:  `The linker asked for its default script (with --verbose) when generating --lld-scriptname.`,
	},
	{
		FlagName:     "strip-directive",
		DefaultValue: linkerscript.DefaultStripDirectives,
		ConfigPath:   StripDirectiveKey,
		Description:  `Directive lld does not support; every NAME(arg) in the default script is replaced by arg.`,
	},
	{
		FlagName:     "no-assertions",
		DefaultValue: false,
		ConfigPath:   NoAssertionsKey,
		Description:  `Do not add capacity assertions to the standard linker script.`,
	},
}

var HeaderFlags = []Definition{
	{
		FlagName:     "suffix-threshold",
		DefaultValue: uint64(header.DefaultSuffixThreshold),
		ConfigPath:   SuffixThresholdKey,
		Description:  `Values above this get a ULL suffix in the header, the others U. Entries with declared bits ignore it.`,
	},
}
