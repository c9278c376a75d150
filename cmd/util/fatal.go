package util

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lowfat-project/lfgen/cmd/util/output"
)

// Fatal reports err on the command's error stream and exits. Tests replace it
// with FakeFatalErrorHandler.
var Fatal = fatalError

func fatalError(cmd *cobra.Command, err error, code int) {
	if msg := err.Error(); msg != "" {
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		cmd.PrintErr(output.RedStr(msg))
	}
	os.Exit(code)
}

// FakeFatalErrorHandler prints the error like Fatal but does not exit.
func FakeFatalErrorHandler(cmd *cobra.Command, err error, code int) {
	cmd.PrintErrf("%s (exit code %d)\n", strings.TrimSuffix(err.Error(), "\n"), code)
}
