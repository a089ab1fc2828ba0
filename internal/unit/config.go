package unit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The only supported generator/verifier type: a binary defined in the same
// workspace.
const workspaceBinaryType = "cargo_workspace_binary"

// manifestMetadata mirrors the `package.metadata` table. Keys other than `px`
// belong to other tools and are ignored.
type manifestMetadata struct {
	Px *pxConfig `json:"px"`
}

type pxConfig struct {
	Generate *generateConfig `json:"generate"`
	Verify   *verifyConfig   `json:"verify"`
}

type generateConfig struct {
	GeneratorType string   `json:"generator_type"`
	GeneratorName string   `json:"generator_name"`
	GeneratorArgs []string `json:"generator_args"`
}

type verifyConfig struct {
	VerifierType string   `json:"verifier_type"`
	VerifierName string   `json:"verifier_name"`
	VerifierArgs []string `json:"verifier_args"`
}

// parseConfig decodes the px section of a metadata table. It returns nil when
// the package does not opt into code generation.
func parseConfig(raw json.RawMessage) (*pxConfig, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var md manifestMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, err
	}
	if md.Px == nil {
		return nil, nil
	}
	if err := md.Px.validate(); err != nil {
		return nil, err
	}
	return md.Px, nil
}

func (c *pxConfig) validate() error {
	if c.Generate == nil {
		return fmt.Errorf("missing field `generate`")
	}
	if c.Generate.GeneratorType != workspaceBinaryType {
		return fmt.Errorf("unknown generator_type %q, expected %q", c.Generate.GeneratorType, workspaceBinaryType)
	}
	if c.Generate.GeneratorName == "" {
		return fmt.Errorf("missing field `generator_name`")
	}
	if c.Verify == nil {
		return nil
	}
	if c.Verify.VerifierType != workspaceBinaryType {
		return fmt.Errorf("unknown verifier_type %q, expected %q", c.Verify.VerifierType, workspaceBinaryType)
	}
	if c.Verify.VerifierName == "" {
		return fmt.Errorf("missing field `verifier_name`")
	}
	return nil
}
