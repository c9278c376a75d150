package configflags

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Definition describes a flag that is also a viper setting.
type Definition struct {
	FlagName     string
	Shorthand    string
	ConfigPath   string
	DefaultValue interface{}
	Description  string
	// EnvironmentVariables are read instead of the prefixed default name.
	EnvironmentVariables []string
}

// RegisterFlags adds one flag set per register entry to flags.
func RegisterFlags(flags *pflag.FlagSet, register map[string][]Definition) error {
	for name, defs := range register {
		fset := pflag.NewFlagSet(name, pflag.ContinueOnError)
		for _, def := range defs {
			switch v := def.DefaultValue.(type) {
			case string:
				fset.StringP(def.FlagName, def.Shorthand, v, def.Description)
			case bool:
				fset.BoolP(def.FlagName, def.Shorthand, v, def.Description)
			case uint64:
				fset.Uint64P(def.FlagName, def.Shorthand, v, def.Description)
			case []string:
				fset.StringSliceP(def.FlagName, def.Shorthand, v, def.Description)
			case pflag.Value:
				fset.VarP(v, def.FlagName, def.Shorthand, def.Description)
			default:
				return fmt.Errorf("unhandled type: %T for flag %s", v, def.FlagName)
			}
		}
		flags.AddFlagSet(fset)
	}
	return nil
}

// BindFlags binds every registered flag to its ConfigPath in v, along with
// any explicit environment variables.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, register map[string][]Definition) error {
	for _, defs := range register {
		for _, def := range defs {
			flag := flags.Lookup(def.FlagName)
			if flag == nil {
				return fmt.Errorf("flag %s is not registered", def.FlagName)
			}
			if err := v.BindPFlag(def.ConfigPath, flag); err != nil {
				return err
			}
			if len(def.EnvironmentVariables) > 0 {
				if err := v.BindEnv(append([]string{def.ConfigPath}, def.EnvironmentVariables...)...); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SetDefaults makes the flag defaults visible through v for commands that do
// not register the flags themselves.
func SetDefaults(v *viper.Viper, register map[string][]Definition) {
	for _, defs := range register {
		for _, def := range defs {
			if value, ok := def.DefaultValue.(pflag.Value); ok {
				v.SetDefault(def.ConfigPath, value.String())
				continue
			}
			v.SetDefault(def.ConfigPath, def.DefaultValue)
		}
	}
}
