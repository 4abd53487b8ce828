package initialize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/indaco/crxsync/internal/config"
)

// Template is a pre-configured setup for a common deployment.
type Template struct {
	Name        string
	Description string
	apply       func(cfg *config.Config)
}

// AllTemplates returns all available templates.
func AllTemplates() []Template {
	return []Template{
		{
			Name:        "standalone",
			Description: "Write the launch argument to the args file only",
			apply:       func(*config.Config) {},
		},
		{
			Name:        "compose",
			Description: "Patch CHROME_CLI in a compose file and restart the container on change",
			apply: func(cfg *config.Config) {
				cfg.Compose.File = "docker-compose.yaml"
				cfg.Compose.EnvKey = "CHROME_CLI"
			},
		},
		{
			Name:        "chromium-home",
			Description: "Extensions under ~/chromium/config/extensions with ~/chromium/docker-compose.yaml",
			apply: func(cfg *config.Config) {
				cfg.ExtensionsDir = "~/chromium/config/extensions"
				cfg.Compose.File = "~/chromium/docker-compose.yaml"
				cfg.Compose.EnvKey = "CHROME_CLI"
			},
		},
	}
}

// TemplateNames returns the names of all available templates.
func TemplateNames() []string {
	templates := AllTemplates()
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return names
}

// GetTemplate returns the template with the given name, or an error if not found.
func GetTemplate(name string) (*Template, error) {
	for _, t := range AllTemplates() {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(TemplateNames(), ", "))
}

// IsValidTemplate checks if the given name is a valid template.
func IsValidTemplate(name string) bool {
	return slices.Contains(TemplateNames(), name)
}
