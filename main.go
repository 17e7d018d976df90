package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"atlas/internal/atlas"
	"atlas/internal/config"
	"atlas/internal/drafts"
	"atlas/internal/history"
	"atlas/internal/labels"
	"atlas/internal/links"
	"atlas/internal/locale"
	"atlas/internal/logging"
	"atlas/internal/markers"
	"atlas/internal/storage"
	"atlas/internal/watch"
)

// Build variables set by ldflags
var (
	version = "dev"
	commit  = "none"
)

var (
	cfgFile  string
	dataDir  string
	langFlag string
	dbPath   string
	verbose  bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "atlas",
		Short: "Terminal map of collectible markers",
		Long: `atlas shows the regions of a game map with their collectible markers.

Filter marker types in the sidebar (click, or drag a box to flip many at
once), mark markers as collected on the map and undo any of it. The label
and link tools edit the place names and region links drawn over the map.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "map data directory")
	rootCmd.PersistentFlags().StringVar(&langFlag, "locale", "", "display language, e.g. en-US")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite file holding marks and edits")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newMergeCommand("labels", mergeLabels))
	rootCmd.AddCommand(newMergeCommand("links", mergeLinks))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// loadConfig layers the command line flags over the loaded configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("locale") {
		cfg.Locale = langFlag
	}
	if flags.Changed("db") {
		cfg.Database = dbPath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	cfg.DataDir = config.ExpandPath(cfg.DataDir)
	cfg.Database = config.ExpandPath(cfg.Database)
	cfg.LogFile = config.ExpandPath(cfg.LogFile)
	cfg.Overlays.Labels = config.ExpandPath(cfg.Overlays.Labels)
	cfg.Overlays.Links = config.ExpandPath(cfg.Overlays.Links)
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Verbose: cfg.Verbose})
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, closeApp, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer closeApp()

	if a.watcher != nil {
		a.watcher.Start(ctx)
	}

	p := tea.NewProgram(
		newModel(a),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	cancel()
	if a.watcher != nil {
		a.watcher.Wait()
	}
	return err
}

// buildApp loads the data set and opens the user state. The returned func
// releases what it opened.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, func(), error) {
	data, err := atlas.Load(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	tr := locale.New(locale.DefaultTag, nil)
	if bundle, err := locale.LoadDir(filepath.Join(cfg.DataDir, "locale")); err != nil {
		logger.Warn("no locale catalogs, showing raw keys", zap.Error(err))
	} else {
		accept := cfg.Locale
		if accept == "" {
			accept = locale.EnvPreference(os.Getenv)
		}
		tr = bundle.Translator(accept)
	}
	logger.Info("locale selected", zap.String("tag", tr.Tag().String()))

	kv, err := storage.OpenSQLite(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	actions := &markers.Actions{
		History: history.NewStack(cfg.History.Limit),
		Filter:  markers.LoadFilterStore(ctx, kv, logger),
		Record:  markers.LoadRecordStore(ctx, kv, logger),
		Logger:  logger,
	}

	labelBase, err := labels.LoadBase(filepath.Join(cfg.DataDir, "labels.json"))
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	linkBase, err := links.LoadBase(filepath.Join(cfg.DataDir, "links.json"))
	if err != nil {
		kv.Close()
		return nil, nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		data:    data,
		tr:      tr,
		actions: actions,
		labels:  labels.NewStore(ctx, labelBase, kv, cfg.History.AnnotationLimit, logger),
		links:   links.NewStore(ctx, linkBase, kv, cfg.History.AnnotationLimit, logger),
		drafts:  drafts.NewStore(cfg.History.AnnotationLimit, logger),
	}

	var overlays []string
	for _, path := range []string{cfg.Overlays.Labels, cfg.Overlays.Links} {
		if path == "" {
			continue
		}
		overlays = append(overlays, path)
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("read overlay", zap.String("path", path), zap.Error(err))
			continue
		}
		ok := false
		if path == cfg.Overlays.Labels {
			ok = a.labels.ImportMerge(string(raw))
		} else {
			ok = a.links.ImportMerge(string(raw))
		}
		if !ok {
			logger.Warn("overlay rejected", zap.String("path", path))
		}
	}
	if cfg.Overlays.Watch && len(overlays) > 0 {
		w, err := watch.New(overlays, watch.DefaultDebounce, logger)
		if err != nil {
			logger.Warn("overlay watch disabled", zap.Error(err))
		} else {
			a.watcher = w
		}
	}

	logger.Info("atlas started",
		zap.String("data", cfg.DataDir),
		zap.Int("regions", len(data.Regions)),
		zap.Int("marked", len(actions.Record.Points())))
	return a, func() {
		if err := kv.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}, nil
}

// newMergeCommand builds "<name> merge BASE OVERLAY..." which prints the
// merged document.
func newMergeCommand(name string, merge func(w io.Writer, base string, overlays []string) error) *cobra.Command {
	parent := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Work with %s documents", name),
	}
	parent.AddCommand(&cobra.Command{
		Use:   "merge BASE OVERLAY...",
		Short: fmt.Sprintf("Merge %s overlays over a base document", name),
		Long: fmt.Sprintf(`Merge one or more %s documents over BASE and print the result.
Later overlays win over earlier ones.`, name),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return merge(cmd.OutOrStdout(), args[0], args[1:])
		},
	})
	return parent
}

func mergeLabels(w io.Writer, base string, overlays []string) error {
	out, err := labels.LoadBase(base)
	if err != nil {
		return err
	}
	for _, path := range overlays {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read overlay: %w", err)
		}
		d, ok := labels.TryParse(string(raw))
		if !ok {
			return fmt.Errorf("%s: not a version 1 label document", path)
		}
		out = labels.Merge(out, d)
	}
	_, err = io.WriteString(w, labels.Serialize(out))
	return err
}

func mergeLinks(w io.Writer, base string, overlays []string) error {
	out, err := links.LoadBase(base)
	if err != nil {
		return err
	}
	for _, path := range overlays {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read overlay: %w", err)
		}
		d, ok := links.TryParse(string(raw))
		if !ok {
			return fmt.Errorf("%s: not a version 1 link document", path)
		}
		out = links.Merge(out, d)
	}
	_, err = io.WriteString(w, links.Serialize(out))
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "atlas %s (%s)\n", displayVersion, commit)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
