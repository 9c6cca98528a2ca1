package cli

import (
	"fmt"
	"io"
	"strings"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/hamidzr/recipemenu/constants"
	"github.com/hamidzr/recipemenu/core"
	"github.com/hamidzr/recipemenu/internal/config"
	"github.com/hamidzr/recipemenu/internal/logger"
	"github.com/hamidzr/recipemenu/model"
	"github.com/hamidzr/recipemenu/render"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const appID = "com.github.hamidzr.recipemenu"

func InitCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.ProjectName,
		Short:         "recipemenu searches recipes by name",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			initConfig, _ := cmd.Flags().GetBool("init-config")
			if initConfig {
				configPath, err := config.InitConfigFile()
				if err != nil {
					return fmt.Errorf("failed to initialize config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Config file created at: %s\n", configPath)
				fmt.Fprintln(cmd.OutOrStdout(), "Edit the file to customize your settings")
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	config.BindFlags(rootCmd)
	rootCmd.AddCommand(newSearchCmd(), newHistoryCmd(), newThemeCmd())

	return rootCmd
}

// loadConfig resolves the config for cmd and sets up logging to match.
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := config.InitConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	if cfg.TerminalMode {
		logger.SetupTerminalLogger()
		return cfg, nil
	}
	if err := logger.SetupLogger(cfg.LogLevel); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	return cfg, nil
}

func run(cfg *model.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logrus.WithError(err).Error("failed to close storage")
		}
	}()

	if cfg.TerminalMode {
		return render.RunTerminal(app.Orchestrator, cfg)
	}

	gui := render.NewGUI(fyneapp.NewWithID(appID), app.Orchestrator, app.Images, cfg)
	gui.ShowAndRun()
	return nil
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search once and print the matching recipes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(strings.Join(args, " "))
			if term == "" {
				return errors.New("search term must not be blank")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app, err := NewApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			app.Orchestrator.Search(term)
			app.Orchestrator.Wait()
			return printResults(cmd.OutOrStdout(), app.Orchestrator.View().Results)
		},
	}
}

// printResults writes one block per card. A failed lookup becomes an
// ExitError so main can report LookupFailed.
func printResults(w io.Writer, results core.ResultsView) error {
	switch results.Status {
	case core.ResultsReady:
		for _, card := range results.Cards {
			fmt.Fprintf(w, "%s (%s)\n", card.Title, card.Category)
			if card.Link != "" {
				fmt.Fprintf(w, "  %s\n", card.Link)
			}
		}
		return nil
	case core.ResultsFailed:
		return model.NewExitError(model.LookupFailed, errors.New(results.Message))
	default:
		fmt.Fprintln(w, results.Message)
		return nil
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			kv, history, _, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = kv.Close() }()

			out := cmd.OutOrStdout()
			if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
				if err := history.Clear(); err != nil {
					return errors.Wrap(err, "failed to clear recent searches")
				}
				fmt.Fprintln(out, "Recent searches cleared")
				return nil
			}

			terms := history.Load()
			if filter, _ := cmd.Flags().GetString("filter"); filter != "" {
				terms = core.FilterTerms(terms, filter)
			}
			if len(terms) == 0 {
				fmt.Fprintln(out, core.NoRecentMessage)
				return nil
			}
			for _, term := range terms {
				fmt.Fprintln(out, term)
			}
			return nil
		},
	}
	cmd.Flags().String("filter", "", "Fuzzy filter applied to the list")
	cmd.Flags().Bool("clear", false, "Remove every recent search")
	return cmd
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the saved theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			kv, _, themes, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = kv.Close() }()

			theme := themes.Load()
			if len(args) == 1 {
				switch args[0] {
				case "toggle":
					theme, err = themes.Toggle()
				case string(model.ThemeLight), string(model.ThemeDark):
					theme = model.Theme(args[0])
					err = themes.Save(theme)
				default:
					return fmt.Errorf("unknown theme %q (want light, dark or toggle)", args[0])
				}
				if err != nil {
					return errors.Wrap(err, "failed to save theme")
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.String())
			return nil
		},
	}
}
