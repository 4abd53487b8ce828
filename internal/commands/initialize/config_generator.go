package initialize

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/indaco/crxsync/internal/config"
)

// GenerateConfigWithComments renders cfg as YAML preceded by a short
// explanatory header.
func GenerateConfigWithComments(cfg *config.Config, template string) ([]byte, error) {
	body, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# crxsync configuration file\n")
	fmt.Fprintf(&buf, "# Template: %s\n", template)
	buf.WriteString("#\n")
	buf.WriteString("# extensions-dir  directory holding one sub-directory per installed extension\n")
	buf.WriteString("# declarations    declared extension set (.json, .jsonc, .yaml or .toml), relative to extensions-dir\n")
	buf.WriteString("# mount-prefix    where extensions-dir is mounted inside the browser container\n")
	buf.WriteString("# compose.env-key variable in compose.file that receives the launch argument\n")
	buf.WriteString("# CRXSYNC_EXTENSIONS_DIR overrides extensions-dir.\n")
	buf.WriteString("\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
