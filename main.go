package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lowfat-project/lfgen/cmd/cli"
)

// Values for version are injected by the build.
var (
	VERSION = ""
)

func main() {
	start := time.Now()
	log.Trace().Msgf("Top of execution - %s", start.UTC())
	cli.Execute(VERSION)
	log.Trace().Msgf("Execution finished - %s", time.Since(start))
}
