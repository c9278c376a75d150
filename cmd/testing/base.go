package cmdtesting

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/suite"

	"github.com/lowfat-project/lfgen/cmd/cli"
	"github.com/lowfat-project/lfgen/cmd/util"
	"github.com/lowfat-project/lfgen/pkg/logger"
)

// SmallConfig has size classes 16, 32 and 64.
const SmallConfig = `{
    "HEAP_REGION_SIZE": 12884901888,
    "GLOBAL_REGION_SIZE": 17179869184,
    "STACK_REGION_SIZE": 4294967296,
    "MIN_ALLOC_SIZE": 16,
    "MAX_HEAP_ALLOC_SIZE": 64,
    "MAX_STACK_ALLOC_SIZE": 64,
    "MAX_GLOBAL_ALLOC_SIZE": 64,
    "STACK_SIZE": 8388608
}`

type BaseSuite struct {
	suite.Suite
	// Dir is a fresh directory per test.
	Dir string
	// ConfigPath holds SmallConfig.
	ConfigPath string
}

// before each test
func (s *BaseSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	util.Fatal = util.FakeFatalErrorHandler

	s.Dir = s.T().TempDir()
	s.ConfigPath = s.WriteFile("lf_config.json", SmallConfig)
}

// After each test
func (s *BaseSuite) TearDownTest() {
	util.Fatal = util.FakeFatalErrorHandler
}

// WriteFile creates name in Dir and returns its path.
func (s *BaseSuite) WriteFile(name, content string) string {
	path := filepath.Join(s.Dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o755))
	return path
}

// Path returns the path of name in Dir.
func (s *BaseSuite) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// ExecuteTestCobraCommand runs a fresh root command with args. Standard
// output and error are captured together in out.
func (s *BaseSuite) ExecuteTestCobraCommand(args ...string) (c *cobra.Command, out string, err error) {
	buf := new(bytes.Buffer)
	root := cli.NewRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	s.T().Logf("Command to execute: %v", args)

	c, err = root.ExecuteC()
	return c, buf.String(), err
}
