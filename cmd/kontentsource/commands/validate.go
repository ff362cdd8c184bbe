package commands

import (
	"fmt"
	"strings"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration %s is valid\n", root.Config)
	fmt.Printf("  project:   %s\n", cfg.Delivery.ProjectID)
	fmt.Printf("  languages: %s (default %s)\n", strings.Join(cfg.Languages, ", "), cfg.DefaultLanguage())
	fmt.Printf("  output:    %s %s\n", cfg.Output.Kind, cfg.Output.Path)
	if cfg.Delivery.UsePreview() {
		fmt.Println("  api:       preview")
	}
	return nil
}
