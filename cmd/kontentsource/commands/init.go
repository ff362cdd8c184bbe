package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/kontentsource/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(filepath.Join(i.Output, "kontentsource.yaml"), i.Force)
	}
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Println("Configuration file created:", configPath)
	fmt.Println("Set KONTENT_PROJECT_ID (or edit delivery.project_id) before running 'kontentsource source'.")
	return nil
}
