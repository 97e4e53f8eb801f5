package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buoy-ui/buoy/internal/config"
	"github.com/buoy-ui/buoy/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		name  string
		addr  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default buoy.json",
		Long: `Write a buoy.json with default settings into the given directory,
or the working directory when omitted.

Examples:
  buoy init
  buoy init deploy --addr :8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, name, addr, force)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: directory name)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing buoy.json")

	return cmd
}

func runInit(dir, name, addr string, force bool) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	path := filepath.Join(absDir, config.ConfigFileName)

	if config.Exists(absDir) && !force {
		return errors.Newf(errors.CategoryCLI, "%s already exists", path).
			WithSuggestion("Pass --force to overwrite it")
	}

	cfg := config.New()
	cfg.Name = name
	if cfg.Name == "" {
		cfg.Name = filepath.Base(absDir)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return err
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	success("Wrote %s", path)
	fmt.Println()
	fmt.Println("  To start the server:")
	fmt.Println()
	fmt.Println("    buoy serve")
	fmt.Println()

	return nil
}
