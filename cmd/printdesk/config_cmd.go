package main

import (
	"fmt"

	"github.com/alnah/go-printdesk/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, err := loadSettings(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergePageFlags(flags.page, cfg)
	mergeRendererFlags(flags.renderer, cfg)
	if flags.printer != "" {
		cfg.Printer = flags.printer
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
