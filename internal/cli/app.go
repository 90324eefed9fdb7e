// Package cli wires the tally commands. Running tally without a subcommand
// opens the terminal UI for the current project.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/tally/internal/config"
	"github.com/kingrea/tally/internal/logging"
	"github.com/kingrea/tally/internal/tui"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// launcher starts the interactive UI for a project directory.
type launcher func(ctx context.Context, projectDir string) error

// App represents the CLI application.
type App struct {
	root       *cobra.Command
	stdout     io.Writer
	stderr     io.Writer
	projectDir string
	launch     launcher
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		launch: runTUI,
	}

	app.root = &cobra.Command{
		Use:   "tally",
		Short: "Track expense invoices from the terminal",
		Long: `tally keeps a YAML book of expense invoices in .tally/ and offers, for
each invoice, exactly the actions its status allows.

Run without arguments to open the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.resolveProjectDir()
			if err != nil {
				return err
			}
			return app.launch(cmd.Context(), dir)
		},
	}
	app.root.PersistentFlags().StringVarP(&app.projectDir, "dir", "C", "", "Project directory (defaults to the working directory)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newInitCmd(),
		app.newActionsCmd(),
		app.newValidateCmd(),
		app.newListCmd(),
		app.newExportCmd(),
	)
	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) resolveProjectDir() (string, error) {
	if a.projectDir != "" {
		return a.projectDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

func (a *App) loadConfig() (*config.Config, error) {
	dir, err := a.resolveProjectDir()
	if err != nil {
		return nil, err
	}
	return config.NewConfig(dir)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "tally version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
		},
	}
}

func (a *App) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the .tally directory with a default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveProjectDir()
			if err != nil {
				return err
			}
			if err := config.InitTallyDir(dir); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Initialized %s in %s\n", config.TallyDir, dir)
			return nil
		},
	}
}

func runTUI(ctx context.Context, projectDir string) error {
	if err := config.InitTallyDir(projectDir); err != nil {
		return fmt.Errorf("initialize %s: %w", config.TallyDir, err)
	}
	logger, err := logging.New(projectDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	app, err := tui.NewApp(projectDir, tui.WithLogger(logger))
	if err != nil {
		logger.Printf("start: %v", err)
		return fmt.Errorf("start TUI (details in %s): %w", logger.Path(), err)
	}
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Printf("run: %v", err)
		return fmt.Errorf("run TUI (details in %s): %w", logger.Path(), err)
	}
	return nil
}
