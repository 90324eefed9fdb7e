package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/tally/internal/lifecycle"
)

type validateOptions struct {
	standalone bool
}

func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [actions.yaml]",
		Short: "Validate action definitions",
		Long: `Validate action definitions without building a registry.

Without a path the actions declared in .tally/config.yaml and
.tally/actions/*.yaml are checked.
Definitions extend the built-in actions unless --standalone is given.

This command checks:
  - Keys are present, trimmed and unique
  - Variants are default or outline
  - Icons exist in the glyph catalog
  - Memberships are in or out, with known statuses
  - An in rule lists at least one status`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				source string
				defs   []lifecycle.Definition
			)
			if len(args) == 1 {
				source = args[0]
				loaded, err := lifecycle.LoadDefinitionFile(source)
				if err != nil {
					return err
				}
				defs = loaded
			} else {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				source = cfg.ProjectConfigPath()
				defs = append(defs, cfg.Project.Actions...)
				files, err := lifecycle.LoadDefinitionDir(cfg.ActionsDir())
				if err != nil {
					return err
				}
				for _, file := range files {
					defs = append(defs, file.Actions...)
				}
			}
			return a.validateDefinitions(source, defs, opts.standalone)
		},
	}

	cmd.Flags().BoolVar(&opts.standalone, "standalone", false, "Validate the definitions on their own instead of as an extension of the built-in actions")

	return cmd
}

func (a *App) validateDefinitions(source string, defs []lifecycle.Definition, standalone bool) error {
	var (
		problems []error
		combined []lifecycle.ActionDescriptor
	)
	if !standalone {
		combined = lifecycle.Default().Actions()
	}
	// Entries that fail to convert are reported and left out, so the
	// remaining ones still get checked.
	for i, def := range defs {
		desc, errs := def.Descriptor()
		if len(errs) > 0 {
			for _, err := range errs {
				problems = append(problems, fmt.Errorf("actions[%d]: %w", i, err))
			}
			continue
		}
		combined = append(combined, desc)
	}
	problems = append(problems, lifecycle.ValidateDefinitions(combined)...)
	if len(problems) == 0 {
		fmt.Fprintf(a.stdout, "OK: %s (%d actions: %s)\n", source, len(combined), describeRegistry(combined))
		return nil
	}
	fmt.Fprintf(a.stdout, "Invalid: %s\n", source)
	for _, problem := range problems {
		fmt.Fprintf(a.stdout, "- %v\n", problem)
	}
	return fmt.Errorf("%d problem(s) in %s", len(problems), source)
}
