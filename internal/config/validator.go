package config

import (
	"fmt"
	"os"

	"github.com/indaco/crxsync/internal/composepatch"
	"github.com/indaco/crxsync/internal/declared"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Extensions Root", "Declarations").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator checks that a configuration can drive a sync pass.
type Validator struct {
	cfg         *Config
	validations []ValidationResult
}

// NewValidator creates a new configuration validator.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate() []ValidationResult {
	v.validations = make([]ValidationResult, 0)

	v.validateExtensionsRoot()
	v.validateDeclarations()
	v.validateCompose()

	return v.validations
}

func (v *Validator) validateExtensionsRoot() {
	info, err := os.Stat(v.cfg.ExtensionsDir)
	switch {
	case os.IsNotExist(err):
		v.addValidation("Extensions Root", false, fmt.Sprintf("%s does not exist yet and will be created on sync", v.cfg.ExtensionsDir), true)
	case err != nil:
		v.addValidation("Extensions Root", false, err.Error(), false)
	case !info.IsDir():
		v.addValidation("Extensions Root", false, fmt.Sprintf("%s is not a directory", v.cfg.ExtensionsDir), false)
	default:
		v.addValidation("Extensions Root", true, v.cfg.ExtensionsDir, false)
	}
}

func (v *Validator) validateDeclarations() {
	path := v.cfg.DeclarationsPath()
	exts, err := declared.Load(path, v.cfg.ReservedNames()...)
	if err != nil {
		v.addValidation("Declarations", false, err.Error(), false)
		return
	}
	v.addValidation("Declarations", true, fmt.Sprintf("%d extension(s) declared in %s", len(exts), path), false)
}

func (v *Validator) validateCompose() {
	c := v.cfg.Compose
	if c == nil || c.File == "" {
		v.addValidation("Compose", true, "no compose file configured, launch argument written to args file only", false)
		return
	}
	if _, err := os.Stat(c.File); err != nil {
		v.addValidation("Compose", false, fmt.Sprintf("compose file: %v", err), false)
		return
	}
	if c.EnvKey == "" {
		v.addValidation("Compose", true, c.File, false)
		return
	}
	found, err := composepatch.HasKey(c.File, c.EnvKey)
	switch {
	case err != nil:
		v.addValidation("Compose", false, err.Error(), false)
	case !found:
		v.addValidation("Compose", false, fmt.Sprintf("%s does not assign %s", c.File, c.EnvKey), false)
	default:
		v.addValidation("Compose", true, fmt.Sprintf("%s assigns %s", c.File, c.EnvKey), false)
	}
}

// addValidation adds a validation result to the list.
func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}
