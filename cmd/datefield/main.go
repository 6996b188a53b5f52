package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/hylla/datefield/internal/adapters/storage/sqlite"
	"github.com/hylla/datefield/internal/app"
	"github.com/hylla/datefield/internal/calendar"
	"github.com/hylla/datefield/internal/config"
	"github.com/hylla/datefield/internal/domain"
	"github.com/hylla/datefield/internal/platform"
	"github.com/hylla/datefield/internal/tui"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// envLookup resolves locale, host capability and base directory variables.
var envLookup platform.Env = os.LookupEnv

// nowFunc stores the wall clock used by non-interactive commands.
var nowFunc = time.Now

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if args == nil {
		args = []string{}
	}

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// newRootCmd builds the command tree. The root command runs the form.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("DATEFIELD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := "datefield"
	if envApp := strings.TrimSpace(os.Getenv("DATEFIELD_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}

	var resume bool
	cmd := &cobra.Command{
		Use:   "datefield",
		Short: "Date fields with a calendar popup",
		Example: strings.TrimSpace(`
  # Fill in the configured form
  datefield

  # Start from the last saved values
  datefield --resume

  # Print a month grid
  datefield grid 2024-02-29
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, resume)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	cmd.PersistentFlags().StringVar(&opts.appName, "app", defaultApp, "application name for config/data path resolution")
	cmd.PersistentFlags().BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	cmd.Flags().BoolVar(&resume, "resume", false, "pre-fill fields from the latest stored submission")

	cmd.AddCommand(newGridCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newPathsCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	return cmd
}

// session holds the resolved runtime state for one command.
type session struct {
	cfg        config.Config
	configPath string
	paths      platform.Paths
	logger     *runtimeLogger
	repo       *sqlite.Repository
	svc        *app.Service
}

// openSession resolves paths, config and logging, and opens the store when withStore is set.
func openSession(opts *cliOptions, command string, withStore bool) (*session, error) {
	paths, err := platform.Resolve(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	}, envLookup)
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("DATEFIELD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("DATEFIELD_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(opts.stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs stay in the dev-file sink while the form owns the terminal.
		logger.SetConsoleEnabled(false)
	}

	s := &session{cfg: cfg, configPath: configPath, paths: paths, logger: logger}
	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	if !withStore {
		return s, nil
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	s.repo = repo
	s.svc = app.NewService(repo, uuid.NewString, nil)
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")
	return s, nil
}

// Close releases the store and the dev-file sink.
func (s *session) Close() {
	if s == nil {
		return
	}
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			s.logger.Warn("sqlite close failed", "db_path", s.cfg.Database.Path, "err", err)
		}
	}
	if err := s.logger.Close(); err != nil && s.logger.shouldLogToSink(s.logger.consoleSink) {
		_, _ = fmt.Fprintf(s.logger.consoleOut, "warning: close runtime log sink: %v\n", err)
	}
}

// locale resolves the calendar locale from config and the environment.
func (s *session) locale() calendar.Locale {
	return s.cfg.ResolveLocale(platform.DetectWeekStart(envLookup))
}

// runTUI runs the form until the user quits.
func runTUI(ctx context.Context, opts *cliOptions, resume bool) error {
	s, err := openSession(opts, "tui", true)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("command flow start", "command", "tui", "resume", resume)
	form, err := buildForm(ctx, s.svc, s.cfg, resume)
	if err != nil {
		s.logger.Error("command flow failed", "command", "tui", "err", err)
		return fmt.Errorf("build form: %w", err)
	}

	m := tui.NewModel(
		s.svc,
		form,
		tui.WithLocale(s.locale()),
		tui.WithCapabilityGate(func() bool { return platform.HasOrientation(envLookup) }),
		tui.WithFieldWidth(s.cfg.Picker.FieldWidth),
		tui.WithKeyConfig(tui.KeyConfig(s.cfg.Keys)),
		tui.WithLogger(s.logger.FileLogger()),
		tui.WithAutofocus(true),
	)
	s.logger.Info("starting tui program loop", "form", form.Name(), "fields", len(form.Fields()))
	final, err := programFactory(m).Run()
	if err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	if fm, ok := final.(tui.Model); ok {
		s.logger.Debug("form closed", "form", fm.Form().Name(), "status", fm.Status())
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// buildForm builds the configured form. With resume set, the latest stored
// values for the form replace the declared defaults.
func buildForm(ctx context.Context, svc *app.Service, cfg config.Config, resume bool) (*domain.Form, error) {
	var (
		latest domain.Submission
		found  bool
	)
	if resume && svc != nil {
		var err error
		latest, found, err = svc.LatestValues(ctx, cfg.Form.Name)
		if err != nil {
			return nil, fmt.Errorf("load latest values: %w", err)
		}
	}

	specs := cfg.FormFields()
	fields := make([]*domain.Field, 0, len(specs))
	for _, spec := range specs {
		def := spec.Default
		if found {
			if stored, ok := latest.Value(spec.Name); ok {
				def = stored
			}
		}
		field, err := domain.NewField(spec.Name, spec.Label, def)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return domain.NewForm(cfg.Form.Name, fields...)
}

// newGridCmd prints the month grid for one date.
func newGridCmd(opts *cliOptions) *cobra.Command {
	var weekStart string
	cmd := &cobra.Command{
		Use:   "grid [YYYY-MM-DD]",
		Short: "Print the month grid for a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, "grid", false)
			if err != nil {
				return err
			}
			defer s.Close()

			ws := s.locale().WeekStart
			switch raw := strings.TrimSpace(weekStart); raw {
			case "", "auto":
			default:
				parsed, err := calendar.ParseWeekStart(raw)
				if err != nil {
					return err
				}
				ws = parsed
			}
			value := ""
			if len(args) == 1 {
				value = args[0]
			}
			return runGrid(opts.stdout, value, ws, nowFunc())
		},
	}
	cmd.Flags().StringVar(&weekStart, "week-start", "", "override the week start (monday|sunday)")
	return cmd
}

// runGrid writes the caption, weekday header and grid for value.
func runGrid(stdout io.Writer, value string, ws calendar.WeekStart, now time.Time) error {
	value = strings.TrimSpace(value)
	if value != "" {
		if _, ok := calendar.ParseISO(value); !ok {
			return fmt.Errorf("%w: %q", domain.ErrInvalidDate, value)
		}
	}
	state := calendar.Synchronize(value, now, ws)
	_, _ = fmt.Fprintln(stdout, state.Caption)
	_, _ = fmt.Fprintln(stdout, renderGridTable(state))
	if state.HasValue {
		_, _ = fmt.Fprintln(stdout, state.Display)
	}
	return nil
}

// newHistoryCmd lists stored submissions.
func newHistoryCmd(opts *cliOptions) *cobra.Command {
	var (
		formName string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(opts, "history", true)
			if err != nil {
				return err
			}
			defer s.Close()

			subs, err := s.svc.ListSubmissions(cmd.Context(), app.SubmissionFilter{FormName: formName, Limit: limit})
			if err != nil {
				s.logger.Error("command flow failed", "command", "history", "err", err)
				return fmt.Errorf("list submissions: %w", err)
			}
			if len(subs) == 0 {
				_, _ = fmt.Fprintln(opts.stdout, "no submissions")
				return nil
			}
			_, _ = fmt.Fprintln(opts.stdout, renderHistoryTable(subs, s.locale()))
			return nil
		},
	}
	cmd.Flags().StringVar(&formName, "form", "", "only list submissions of this form")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows (0 for all)")
	return cmd
}

// newShowCmd prints one stored submission by id.
func newShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, "show", true)
			if err != nil {
				return err
			}
			defer s.Close()

			sub, err := s.svc.GetSubmission(cmd.Context(), args[0])
			if err != nil {
				s.logger.Error("command flow failed", "command", "show", "id", args[0], "err", err)
				return fmt.Errorf("get submission %q: %w", args[0], err)
			}
			_, _ = fmt.Fprintln(opts.stdout, renderHistoryTable([]domain.Submission{sub}, s.locale()))
			return nil
		},
	}
}

// newExportCmd writes a snapshot of stored submissions.
func newExportCmd(opts *cliOptions) *cobra.Command {
	var (
		outPath  string
		formName string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export submissions as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(opts, "export", true)
			if err != nil {
				return err
			}
			defer s.Close()

			s.logger.Info("command flow start", "command", "export")
			if err := runExport(cmd.Context(), s.svc, outPath, formName, opts.stdout); err != nil {
				s.logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			s.logger.Info("command flow complete", "command", "export")
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	cmd.Flags().StringVar(&formName, "form", "", "only export submissions of this form")
	return cmd
}

// runExport runs the requested command flow.
func runExport(ctx context.Context, svc *app.Service, outPath, formName string, stdout io.Writer) error {
	snap, err := svc.ExportSnapshot(ctx, formName)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// newImportCmd loads a snapshot into the store.
func newImportCmd(opts *cliOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import submissions from a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}
			s, err := openSession(opts, "import", true)
			if err != nil {
				return err
			}
			defer s.Close()

			s.logger.Info("command flow start", "command", "import")
			imported, err := runImport(cmd.Context(), s.svc, inPath)
			if err != nil {
				s.logger.Error("command flow failed", "command", "import", "err", err)
				return fmt.Errorf("run import command: %w", err)
			}
			_, _ = fmt.Fprintf(opts.stdout, "imported %d submissions\n", imported)
			s.logger.Info("command flow complete", "command", "import", "imported", imported)
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	return cmd
}

// runImport runs the requested command flow.
func runImport(ctx context.Context, svc *app.Service, inPath string) (int, error) {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return 0, fmt.Errorf("decode snapshot json: %w", err)
	}
	imported, err := svc.ImportSnapshot(ctx, snap)
	if err != nil {
		return imported, fmt.Errorf("import snapshot: %w", err)
	}
	return imported, nil
}

// newPathsCmd prints the resolved config and data paths.
func newPathsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := platform.Resolve(platform.Options{
				AppName: opts.appName,
				DevMode: opts.devMode,
			}, envLookup)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(opts.stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(opts.stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(opts.stdout, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(opts.stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(opts.stdout, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}

// newInitCmd writes the resolved config to the config path.
func newInitCmd(opts *cliOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := openSession(opts, "init", false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := config.Write(s.configPath, s.cfg, force); err != nil {
				s.logger.Error("command flow failed", "command", "init", "config_path", s.configPath, "err", err)
				return fmt.Errorf("write config: %w", err)
			}
			s.logger.Info("config written", "config_path", s.configPath)
			_, _ = fmt.Fprintf(opts.stdout, "wrote %s\n", s.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
