package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dpshade/promptdeck/internal/clipboard"
	"github.com/dpshade/promptdeck/internal/config"
	"github.com/dpshade/promptdeck/internal/editor"
	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/logging"
	"github.com/dpshade/promptdeck/internal/models"
	"github.com/dpshade/promptdeck/internal/service"
	"github.com/dpshade/promptdeck/internal/session"
	"github.com/dpshade/promptdeck/internal/storage"
	"github.com/dpshade/promptdeck/internal/ui"
)

var version = "0.1.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := config.New()
	var (
		cfgFile string
		manage  bool
		debug   bool
	)

	rootCmd := &cobra.Command{
		Use:     "promptdeck",
		Short:   "Browse, compose and copy AI prompts from the terminal",
		Version: version,
		Long: `promptdeck keeps a library of prompts as markdown files and lets you
search, tag, compose and copy them without leaving the terminal.

Quick select mode copies the highlighted prompt on Enter and exits.
Management mode adds editing, tagging, creating and deleting prompts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
			if manage {
				v.Set(config.KeyMode, config.ModeManage)
			}
			if debug {
				v.Set(config.KeyLogLevel, "debug")
			}
			return run(v)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/promptdeck/config.yaml)")
	flags.String("dir", "", "prompt library directory (default is ~/.promptdeck)")
	flags.String("editor", "", "editor command used to edit prompts")
	flags.BoolVarP(&manage, "manage", "m", false, "start in management mode")
	flags.BoolVar(&debug, "debug", false, "write debug logs")

	bindFlag(v, config.KeyDir, flags.Lookup("dir"))
	bindFlag(v, config.KeyEditor, flags.Lookup("editor"))

	return rootCmd
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func run(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, closer := openLog(cfg)
	defer closer.Close()
	log.WithFields(logrus.Fields{
		"dir":    cfg.Dir,
		"mode":   cfg.Mode,
		"config": cfg.ConfigFile,
	}).Info("starting promptdeck")

	handler := errors.NewCLIErrorHandler(log)

	store, err := storage.NewStorage(cfg.Dir, cfg.Include, log)
	if err != nil {
		return fmt.Errorf("%s", handler.FormatError(errors.StartupError("open prompt library", err)))
	}
	lib := service.NewLibrary(store, log)

	state := storage.NewStateStore(filepath.Join(cfg.Dir, "state"))
	last, err := state.Load()
	if err != nil {
		log.WithError(err).Warn("failed to load session state")
		last = models.SessionState{}
	}

	mode := session.QuickSelect
	if cfg.Management() {
		mode = session.Management
	}

	ctrl, err := session.NewController(session.Options{
		Store:        lib,
		Mode:         mode,
		Templates:    lib.Templates(),
		State:        last,
		ErrorHandler: errors.NewTUIErrorHandler(log, false),
		Logger:       log,
	})
	if err != nil {
		handler.HandleError(err)
		return fmt.Errorf("%s", handler.FormatError(err))
	}

	model, err := ui.NewModel(ui.Options{
		Controller: ctrl,
		Executor: &session.Executor{
			Controller: ctrl,
			Library:    lib,
			Clipboard:  clipboard.New(),
			State:      state,
			Log:        log,
		},
		Library:  lib,
		Launcher: editor.NewLauncher(cfg.Editor),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if err := state.Save(ctrl.State()); err != nil {
		log.WithError(err).Warn("failed to save session state")
	}
	log.Info("promptdeck exited")
	return nil
}

// openLog opens the file logger, falling back to a discarding logger so a
// read-only library can still be browsed.
func openLog(cfg *config.Config) (*logrus.Logger, io.Closer) {
	log, closer, err := logging.New(cfg.Dir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.Discard(), io.NopCloser(nil)
	}
	return log, closer
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
