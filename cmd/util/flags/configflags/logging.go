package configflags

import (
	"github.com/lowfat-project/lfgen/cmd/util/flags"
	"github.com/lowfat-project/lfgen/pkg/logger"
)

const (
	LogModeKey = "log-mode"
	VerboseKey = "verbose"
)

// LogFlags returns the logging flags; mode receives the parsed --log-mode.
func LogFlags(mode *logger.LogMode) []Definition {
	return []Definition{
		{
			FlagName:             "log-mode",
			DefaultValue:         flags.LoggingFlag(mode),
			ConfigPath:           LogModeKey,
			Description:          `Log format: 'default','json','combined'`,
			EnvironmentVariables: []string{"LOG_TYPE"},
		},
		{
			FlagName:     "verbose",
			Shorthand:    "v",
			DefaultValue: false,
			ConfigPath:   VerboseKey,
			Description:  `Verbose output: log every generated line at debug level.`,
		},
	}
}
