//go:build unit || !integration

package cli_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	cmdtesting "github.com/lowfat-project/lfgen/cmd/testing"
)

const (
	goldenHeader = "../../pkg/lowfat/header/testdata/sizes_16_to_64.h"
	goldenScript = "../../pkg/lowfat/linkerscript/testdata/lowfat_16_to_64.ld"
	ldVerbose    = "../../pkg/lowfat/linkerscript/testdata/ld_verbose.txt"
)

type RootSuite struct {
	cmdtesting.BaseSuite
}

func TestRootSuite(t *testing.T) {
	suite.Run(t, new(RootSuite))
}

func (s *RootSuite) read(path string) string {
	b, err := os.ReadFile(path)
	s.Require().NoError(err)
	return string(b)
}

func (s *RootSuite) fakeLinker() string {
	abs, err := filepath.Abs(ldVerbose)
	s.Require().NoError(err)
	return s.WriteFile("fake-ld", fmt.Sprintf("#!/bin/sh\ncat %q\n", abs))
}

func (s *RootSuite) generate(extra ...string) (string, error) {
	args := append([]string{
		"--config", s.ConfigPath,
		"--sizes", s.Path("src/sizes.h"),
		"--scriptname", s.Path("build/lowfat.ld"),
	}, extra...)
	_, out, err := s.ExecuteTestCobraCommand(args...)
	return out, err
}

func (s *RootSuite) TestGenerate() {
	out, err := s.generate()
	s.Require().NoError(err)
	s.NotContains(out, "exit code")

	s.Equal(s.read(goldenHeader), s.read(s.Path("src/sizes.h")))
	s.Equal(s.read(goldenScript), s.read(s.Path("build/lowfat.ld")))
	s.NoFileExists(s.Path("build/lowfat_lld.ld"))
}

func (s *RootSuite) TestGenerateLLDScript() {
	out, err := s.generate(
		"--linker", s.fakeLinker(),
		"--lld-scriptname", s.Path("build/lowfat_lld.ld"),
	)
	s.Require().NoError(err)
	s.NotContains(out, "exit code")

	script := s.read(s.Path("build/lowfat_lld.ld"))
	s.Contains(script, "lf_section_16")
	s.Contains(script, "lf_section_read_only_64")
	s.Contains(script, ".gnu.attributes 0 :")
	s.NotContains(script, "SORT_NONE")
	s.NotContains(script, "ASSERT")
}

func (s *RootSuite) TestLinkerFailureKeepsStandardOutputs() {
	failing := s.WriteFile("failing-ld", "#!/bin/sh\necho unsupported >&2\nexit 1\n")
	out, _ := s.generate(
		"--linker", failing,
		"--lld-scriptname", s.Path("build/lowfat_lld.ld"),
	)
	s.Contains(out, "unsupported")
	s.Contains(out, "exit code 1")

	s.FileExists(s.Path("src/sizes.h"))
	s.FileExists(s.Path("build/lowfat.ld"))
	s.NoFileExists(s.Path("build/lowfat_lld.ld"))
}

func (s *RootSuite) TestMissingConfig() {
	_, out, _ := s.ExecuteTestCobraCommand(
		"--config", s.Path("nope.json"),
		"--sizes", s.Path("src/sizes.h"),
	)
	s.Contains(out, "does not exist")
	s.Contains(out, "exit code 1")
	s.NoFileExists(s.Path("src/sizes.h"))
}

func (s *RootSuite) TestNoAssertions() {
	_, err := s.generate("--no-assertions")
	s.Require().NoError(err)
	script := s.read(s.Path("build/lowfat.ld"))
	s.NotContains(script, "ASSERT")
	s.Contains(script, "lf_section_32")
}

func (s *RootSuite) TestSuffixThreshold() {
	_, err := s.generate("--suffix-threshold", "0")
	s.Require().NoError(err)
	header := s.read(s.Path("src/sizes.h"))
	s.Contains(header, "#define MIN_ALLOC_SIZE 16ULL\n")
	s.Contains(header, "#define HEAP_REGION_OFFSET 0U\n")
}

func (s *RootSuite) TestEnvironment() {
	s.T().Setenv("LFGEN_SIZES", s.Path("from_env.h"))
	s.T().Setenv("LFGEN_SCRIPTNAME", s.Path("from_env.ld"))

	_, out, err := s.ExecuteTestCobraCommand("--config", s.ConfigPath)
	s.Require().NoError(err)
	s.NotContains(out, "exit code")
	s.Equal(s.read(goldenHeader), s.read(s.Path("from_env.h")))
	s.Equal(s.read(goldenScript), s.read(s.Path("from_env.ld")))
}

func (s *RootSuite) TestInvalidLogMode() {
	_, _, err := s.ExecuteTestCobraCommand("--log-mode", "fancy", "--config", s.ConfigPath)
	s.Error(err)
}

func (s *RootSuite) TestRejectsArguments() {
	_, _, err := s.ExecuteTestCobraCommand("lf_config.json")
	s.Error(err)
}
