//go:build unit || !integration

package validate_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	cmdtesting "github.com/lowfat-project/lfgen/cmd/testing"
)

type ValidateSuite struct {
	cmdtesting.BaseSuite
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateSuite))
}

func (s *ValidateSuite) TestValidate() {
	tests := map[string]struct {
		content string
		valid   bool
		message string
	}{
		"valid": {content: cmdtesting.SmallConfig, valid: true},
		"missing parameters": {
			content: `{"HEAP_REGION_SIZE": 1024}`,
			message: "MIN_ALLOC_SIZE",
		},
		"wrong value type": {
			content: `{"HEAP_REGION_SIZE": [1]}`,
			message: "not valid",
		},
		"inconsistent layout": {
			content: `{
    "HEAP_REGION_SIZE": 12884901888,
    "GLOBAL_REGION_SIZE": 17179869184,
    "STACK_REGION_SIZE": 4294967296,
    "MIN_ALLOC_SIZE": 16,
    "MAX_HEAP_ALLOC_SIZE": 64,
    "MAX_STACK_ALLOC_SIZE": 128,
    "MAX_GLOBAL_ALLOC_SIZE": 64,
    "STACK_SIZE": 8388608
}`,
			message: "inconsistent size-class tables",
		},
	}
	for name, test := range tests {
		s.Run(name, func() {
			path := s.WriteFile(name+".json", test.content)
			_, out, err := s.ExecuteTestCobraCommand("validate", path)
			s.Require().NoError(err)

			if test.valid {
				s.Contains(out, "The configuration is valid")
				return
			}
			s.NotContains(out, "The configuration is valid")
			s.Contains(out, "exit code 1")
			s.Contains(out, test.message)
		})
	}
}

func (s *ValidateSuite) TestConfigFlag() {
	_, out, err := s.ExecuteTestCobraCommand("validate", "--config", s.ConfigPath)
	s.Require().NoError(err)
	s.Contains(out, "The configuration is valid")
}

func (s *ValidateSuite) TestYAML() {
	path := s.WriteFile("lf_config.yaml", `
HEAP_REGION_SIZE: 12GB
GLOBAL_REGION_SIZE: 16GB
STACK_REGION_SIZE: 4GB
MIN_ALLOC_SIZE: 16
MAX_HEAP_ALLOC_SIZE: 64
MAX_STACK_ALLOC_SIZE: 64
MAX_GLOBAL_ALLOC_SIZE: 64
STACK_SIZE: 8MB
`)
	_, out, err := s.ExecuteTestCobraCommand("validate", path)
	s.Require().NoError(err)
	s.Contains(out, "The configuration is valid")
}

func (s *ValidateSuite) TestOutputSchema() {
	_, out, err := s.ExecuteTestCobraCommand("validate", "--output-schema")
	s.Require().NoError(err)

	var schema map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(out), &schema), out)
	s.Contains(schema, "properties")
}
