package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ai_detector/internal/config"
	"ai_detector/internal/db"
	"ai_detector/internal/logger"
	"ai_detector/internal/render"
	"ai_detector/internal/transport"
	"ai_detector/internal/workflow"
	"ai_detector/internal/workspace"
)

type appOptions struct {
	// logToFile sends log lines to the workspace log file instead of stderr.
	logToFile bool
	// flags maps config keys to local flags of the running command.
	flags map[string]string
}

// app is everything a command needs, built once from flags, environment,
// config file and workspace.
type app struct {
	root   string
	cfg    config.Config
	log    logger.Logger
	client *transport.Client
	store  *db.Store
	color  bool
	width  int
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	root, err := workspace.EnsureDefault()
	if err != nil {
		return nil, fmt.Errorf("workspace initialization failed: %w", err)
	}
	config.LoadDotEnv(".env", filepath.Join(root, ".env"))

	v, err := config.New(root)
	if err != nil {
		return nil, err
	}
	persistent := map[string]string{
		config.KeyBaseURL:  "base-url",
		config.KeyLogLevel: "log-level",
		config.KeyUI:       "ui",
	}
	if err := bindFlags(v, cmd.Root().PersistentFlags(), persistent); err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd.Flags(), opts.flags); err != nil {
		return nil, err
	}

	configFile, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(v, root, configFile)
	if err != nil {
		return nil, err
	}

	colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor, err := readColorMode(colorMode)
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development}
	if opts.logToFile {
		logCfg.OutputPaths = []string{workspace.LogFile(root)}
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}

	client, err := transport.New(transport.Config{BaseURL: cfg.BaseURL}, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		root:   root,
		cfg:    cfg,
		log:    log,
		client: client,
		color:  useColor,
		width:  terminalWidth(os.Stdout),
	}
	if cfg.History.Enabled {
		store, err := db.OpenStore(cfg.History.Path)
		if err != nil {
			log.Warn("run history unavailable", logger.String("path", cfg.History.Path), logger.Error(err))
		} else {
			a.store = store
		}
	}
	log.Debug("configuration loaded",
		logger.String("base_url", cfg.BaseURL),
		logger.String("workspace", root),
		logger.String("config_file", cfg.File),
		logger.Bool("history", a.store != nil))
	return a, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close history store", logger.Error(err))
		}
		a.store = nil
	}
	_ = a.log.Sync()
}

// workflows builds the three workflows, recording every settled submission
// in the run history when it is enabled.
func (a *app) workflows(ctx context.Context) workflow.Set {
	return workflow.NewSet(a.client, workflow.Hooks{
		Logger: a.log,
		OnSettled: func(rec workflow.Record) {
			if a.store == nil {
				return
			}
			if err := a.store.Record(context.WithoutCancel(ctx), db.RunFromRecord(rec)); err != nil {
				a.log.Warn("record run failed",
					logger.String("workflow", string(rec.Kind)),
					logger.String("request_id", rec.Ticket.String()),
					logger.Error(err))
			}
		},
	})
}

func (a *app) textOptions() render.TextOptions {
	return render.TextOptions{Color: a.color, Width: a.width}
}
