package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/lowfat-project/lfgen/cmd/util"
	"github.com/lowfat-project/lfgen/pkg/lowfat/generator"
)

func generate(ctx context.Context, v *viper.Viper) error {
	opts := util.GeneratorOptions(v)
	log.Ctx(ctx).Debug().
		Str("config", opts.ConfigPath).
		Str("sizes", opts.SizesPath).
		Str("script", opts.ScriptPath).
		Str("lld-script", opts.LLDScriptPath).
		Msg("Generating")
	return generator.Run(ctx, opts)
}
