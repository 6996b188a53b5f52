package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/datefield/internal/app"
	"github.com/hylla/datefield/internal/calendar"
	"github.com/hylla/datefield/internal/config"
	"github.com/hylla/datefield/internal/platform"
	"github.com/hylla/datefield/internal/tui"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("DATEFIELD_DEV_MODE", "false")
	envLookup = platform.MapEnv(map[string]string{"LANG": "en_GB.UTF-8"})
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// scriptedProgram represents program data used to exercise model flows inside run() tests.
type scriptedProgram struct {
	model tea.Model
	runFn func(tea.Model) (tea.Model, error)
}

// Run runs scripted model interactions and returns the final state.
func (p scriptedProgram) Run() (tea.Model, error) {
	if p.runFn == nil {
		return p.model, nil
	}
	return p.runFn(p.model)
}

// applyModelMsg applies one message and any resulting command chain.
func applyModelMsg(t *testing.T, model tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	updated, cmd := model.Update(msg)
	return applyModelCmd(t, updated, cmd)
}

// applyModelCmd executes one command chain to completion (bounded for safety).
func applyModelCmd(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	out := model
	currentCmd := cmd
	for i := 0; i < 8 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		out = updated
		currentCmd = nextCmd
	}
	return out
}

// stubProgramFactory swaps the program factory for the duration of one test.
func stubProgramFactory(t *testing.T, factory func(tea.Model) program) {
	t.Helper()
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = factory
}

// writeConfig writes content to a config file under dir.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

const bookingConfig = `
[form]
name = "booking"

[[form.fields]]
name = "start"
label = "Start"
default = "2024-01-15"

[[form.fields]]
name = "end"
label = "End"
`

// submitNextDay moves the focused start field forward one day, closes the popup and submits.
func submitNextDay(t *testing.T) func(tea.Model) (tea.Model, error) {
	return func(m tea.Model) (tea.Model, error) {
		m = applyModelMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
		m = applyModelMsg(t, m, tea.KeyPressMsg{Code: 'l', Text: "l"})
		m = applyModelMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
		m = applyModelMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
		return m, nil
	}
}

// formValue reads one field value from a final tui model.
func formValue(t *testing.T, m tea.Model, name string) string {
	t.Helper()
	model, ok := m.(tui.Model)
	if !ok {
		t.Fatalf("expected tui.Model, got %T", m)
	}
	field, ok := model.Form().Field(name)
	if !ok {
		t.Fatalf("field %q missing", name)
	}
	return field.Value()
}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--version"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRunStartsProgram verifies behavior for the covered scenario.
func TestRunStartsProgram(t *testing.T) {
	stubProgramFactory(t, func(_ tea.Model) program { return fakeProgram{} })

	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "datefield.db")
	cfgPath := filepath.Join(tmp, "missing.toml")
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db created, stat error %v", err)
	}
}

// TestRunBuildsConfiguredForm verifies the form handed to the program follows config.
func TestRunBuildsConfiguredForm(t *testing.T) {
	var got tea.Model
	stubProgramFactory(t, func(m tea.Model) program {
		got = m
		return scriptedProgram{model: m}
	})

	tmp := t.TempDir()
	cfgPath := writeConfig(t, tmp, bookingConfig)
	if err := run(context.Background(), []string{"--db", filepath.Join(tmp, "datefield.db"), "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	model, ok := got.(tui.Model)
	if !ok {
		t.Fatalf("expected tui.Model, got %T", got)
	}
	if model.Form().Name() != "booking" {
		t.Fatalf("unexpected form name %q", model.Form().Name())
	}
	if len(model.Form().Fields()) != 2 {
		t.Fatalf("expected two fields, got %d", len(model.Form().Fields()))
	}
	if v := formValue(t, got, "start"); v != "2024-01-15" {
		t.Fatalf("expected start default, got %q", v)
	}
	if v := formValue(t, got, "end"); v != "" {
		t.Fatalf("expected empty end, got %q", v)
	}
}

// TestRunTUISubmitPersistsAndResumes verifies a submitted form is stored and --resume reloads it.
func TestRunTUISubmitPersistsAndResumes(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "datefield.db")
	cfgPath := writeConfig(t, tmp, bookingConfig)

	var final tea.Model
	stubProgramFactory(t, func(m tea.Model) program {
		script := submitNextDay(t)
		return scriptedProgram{model: m, runFn: func(m tea.Model) (tea.Model, error) {
			out, err := script(m)
			final = out
			return out, err
		}}
	})
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if v := formValue(t, final, "start"); v != "2024-01-16" {
		t.Fatalf("expected start moved one day, got %q", v)
	}
	if status := final.(tui.Model).Status(); !strings.HasPrefix(status, "saved ") {
		t.Fatalf("expected saved status, got %q", status)
	}

	var out strings.Builder
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "history"}, &out, io.Discard); err != nil {
		t.Fatalf("run(history) error = %v", err)
	}
	if !strings.Contains(out.String(), "start=2024-01-16") || !strings.Contains(out.String(), "end=-") {
		t.Fatalf("expected stored values in history, got %q", out.String())
	}

	id := strings.Fields(final.(tui.Model).Status())[1]
	out.Reset()
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "show", id}, &out, io.Discard); err != nil {
		t.Fatalf("run(show) error = %v", err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "start=2024-01-16") {
		t.Fatalf("expected submission %s in show output, got %q", id, out.String())
	}

	var resumed tea.Model
	stubProgramFactory(t, func(m tea.Model) program {
		resumed = m
		return scriptedProgram{model: m}
	})
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "--resume"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(--resume) error = %v", err)
	}
	if v := formValue(t, resumed, "start"); v != "2024-01-16" {
		t.Fatalf("expected resumed start value, got %q", v)
	}

	stubProgramFactory(t, func(m tea.Model) program {
		resumed = m
		return scriptedProgram{model: m}
	})
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if v := formValue(t, resumed, "start"); v != "2024-01-15" {
		t.Fatalf("expected declared default without --resume, got %q", v)
	}
}

// TestRunProgramError verifies program failures surface as command errors.
func TestRunProgramError(t *testing.T) {
	stubProgramFactory(t, func(_ tea.Model) program { return fakeProgram{runErr: io.ErrUnexpectedEOF} })

	tmp := t.TempDir()
	err := run(context.Background(), []string{"--db", filepath.Join(tmp, "datefield.db"), "--config", filepath.Join(tmp, "missing.toml")}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "run tui program") {
		t.Fatalf("expected wrapped program error, got %v", err)
	}
}

// TestRunInvalidFlag verifies behavior for the covered scenario.
func TestRunInvalidFlag(t *testing.T) {
	err := run(context.Background(), []string{"--unknown-flag"}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected flag parse error")
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"unknown-command"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

// TestRunGridCommand verifies the non-interactive grid output.
func TestRunGridCommand(t *testing.T) {
	origNow := nowFunc
	t.Cleanup(func() { nowFunc = origNow })
	nowFunc = func() time.Time { return time.Date(2026, 2, 21, 9, 30, 0, 0, time.UTC) }

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "missing.toml")

	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "grid", "--week-start", "sunday", "2024-02-29"}, &out, io.Discard); err != nil {
		t.Fatalf("run(grid) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{"February 2024", "Su", "29", "February 29, 2024"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in grid output, got %q", want, output)
		}
	}

	out.Reset()
	if err := run(context.Background(), []string{"--config", cfgPath, "grid"}, &out, io.Discard); err != nil {
		t.Fatalf("run(grid today) error = %v", err)
	}
	if !strings.Contains(out.String(), "February 2026") {
		t.Fatalf("expected today's caption, got %q", out.String())
	}
	if strings.Contains(out.String(), "21 February 2026") {
		t.Fatalf("expected no display line without a value, got %q", out.String())
	}
}

// TestRunGridRejectsInvalidInput verifies bad dates and week starts fail.
func TestRunGridRejectsInvalidInput(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "missing.toml")
	if err := run(context.Background(), []string{"--config", cfgPath, "grid", "2024-02-30"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected invalid date error")
	}
	if err := run(context.Background(), []string{"--config", cfgPath, "grid", "--week-start", "friday"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected invalid week start error")
	}
	if err := run(context.Background(), []string{"--config", cfgPath, "grid", "2024-01-01", "2024-01-02"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected too many arguments error")
	}
}

// TestRunGridWritesDisplayValue verifies runGrid directly for both week starts.
func TestRunGridWritesDisplayValue(t *testing.T) {
	now := time.Date(2026, 2, 21, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		ws      calendar.WeekStart
		display string
		first   string
	}{
		{ws: calendar.WeekStartMonday, display: "15 January 2024", first: "Mo"},
		{ws: calendar.WeekStartSunday, display: "January 15, 2024", first: "Su"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		if err := runGrid(&out, "2024-01-15", tc.ws, now); err != nil {
			t.Fatalf("runGrid(%s) error = %v", tc.ws, err)
		}
		if !strings.Contains(out.String(), tc.display) {
			t.Fatalf("expected %q for %s, got %q", tc.display, tc.ws, out.String())
		}
		if !strings.Contains(out.String(), tc.first) {
			t.Fatalf("expected %q header for %s, got %q", tc.first, tc.ws, out.String())
		}
	}
}

// TestRunHistoryEmptyAndInvalidLimit verifies behavior for the covered scenario.
func TestRunHistoryEmptyAndInvalidLimit(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "datefield.db")
	cfgPath := filepath.Join(tmp, "missing.toml")

	var out strings.Builder
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "history"}, &out, io.Discard); err != nil {
		t.Fatalf("run(history) error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "no submissions" {
		t.Fatalf("expected empty history, got %q", out.String())
	}

	err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "history", "--limit", "-1"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), app.ErrInvalidLimit.Error()) {
		t.Fatalf("expected invalid limit error, got %v", err)
	}
}

// TestRunShowMissingSubmission verifies unknown ids surface ErrNotFound.
func TestRunShowMissingSubmission(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "datefield.db")
	cfgPath := filepath.Join(tmp, "missing.toml")

	err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "show", "nope"}, io.Discard, io.Discard)
	if !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "show"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected missing id argument error")
	}
}

// TestRunInitWritesConfig verifies init writes a loadable config once.
func TestRunInitWritesConfig(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "data", "datefield.db")
	cfgPath := filepath.Join(tmp, "conf", "nested", "config.toml")

	var out strings.Builder
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "init"}, &out, io.Discard); err != nil {
		t.Fatalf("run(init) error = %v", err)
	}
	if !strings.Contains(out.String(), cfgPath) {
		t.Fatalf("expected written path in output, got %q", out.String())
	}
	cfg, err := config.Load(cfgPath, config.Default(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != dbPath {
		t.Fatalf("expected db path %q in written config, got %q", dbPath, cfg.Database.Path)
	}

	err = run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "init"}, io.Discard, io.Discard)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "init", "--force"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(init --force) error = %v", err)
	}
}

// TestRunExportImportRoundTrip verifies behavior for the covered scenario.
func TestRunExportImportRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	srcDB := filepath.Join(tmp, "src.db")
	dstDB := filepath.Join(tmp, "dst.db")
	cfgPath := writeConfig(t, tmp, bookingConfig)

	stubProgramFactory(t, func(m tea.Model) program {
		return scriptedProgram{model: m, runFn: submitNextDay(t)}
	})
	if err := run(context.Background(), []string{"--db", srcDB, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	outPath := filepath.Join(tmp, "nested", "snapshot.json")
	if err := run(context.Background(), []string{"--db", srcDB, "--config", cfgPath, "export", "--out", outPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(export) error = %v", err)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if snap.Version != app.SnapshotVersion || len(snap.Submissions) != 1 {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
	if snap.Submissions[0].FormName != "booking" {
		t.Fatalf("unexpected form name %q", snap.Submissions[0].FormName)
	}

	var out strings.Builder
	if err := run(context.Background(), []string{"--db", dstDB, "--config", cfgPath, "import", "--in", outPath}, &out, io.Discard); err != nil {
		t.Fatalf("run(import) error = %v", err)
	}
	if !strings.Contains(out.String(), "imported 1 submissions") {
		t.Fatalf("unexpected import output %q", out.String())
	}

	out.Reset()
	if err := run(context.Background(), []string{"--db", dstDB, "--config", cfgPath, "import", "--in", outPath}, &out, io.Discard); err != nil {
		t.Fatalf("run(import again) error = %v", err)
	}
	if !strings.Contains(out.String(), "imported 0 submissions") {
		t.Fatalf("expected re-import to skip existing ids, got %q", out.String())
	}

	out.Reset()
	if err := run(context.Background(), []string{"--db", dstDB, "--config", cfgPath, "export", "--form", "booking"}, &out, io.Discard); err != nil {
		t.Fatalf("run(export stdout) error = %v", err)
	}
	if !strings.Contains(out.String(), `"form_name": "booking"`) {
		t.Fatalf("expected snapshot json on stdout, got %q", out.String())
	}
}

// TestRunImportErrors verifies behavior for the covered scenario.
func TestRunImportErrors(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "datefield.db")
	cfgPath := filepath.Join(tmp, "missing.toml")

	err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "import"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "--in is required") {
		t.Fatalf("expected missing --in error, got %v", err)
	}

	badPath := filepath.Join(tmp, "bad.json")
	if err := os.WriteFile(badPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	err = run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "import", "--in", badPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "decode snapshot json") {
		t.Fatalf("expected decode error, got %v", err)
	}

	err = run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "import", "--in", filepath.Join(tmp, "absent.json")}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "read import file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

// TestRunConfigAndDBEnvOverrides verifies behavior for the covered scenario.
func TestRunConfigAndDBEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "env.db")
	cfgPath := writeConfig(t, tmp, "[database]\npath = \"/tmp/ignore-me.db\"\n")

	t.Setenv("DATEFIELD_CONFIG", cfgPath)
	t.Setenv("DATEFIELD_DB_PATH", dbPath)

	err := run(context.Background(), []string{"export", "--out", filepath.Join(tmp, "out.json")}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run(export with env paths) error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db created at env path, stat error %v", err)
	}
}

// TestRunPathsCommand verifies behavior for the covered scenario.
func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--app", "datefieldx", "--dev", "paths"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "app: datefieldx") {
		t.Fatalf("expected app name in paths output, got %q", output)
	}
	if !strings.Contains(output, "dev_mode: true") {
		t.Fatalf("expected dev mode in paths output, got %q", output)
	}
}

// TestParseBoolEnv verifies behavior for the covered scenario.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("DATEFIELD_BOOL_TEST", "true")
	got, ok := parseBoolEnv("DATEFIELD_BOOL_TEST")
	if !ok || !got {
		t.Fatalf("expected true bool env parse, got value=%t ok=%t", got, ok)
	}

	t.Setenv("DATEFIELD_BOOL_TEST", "not-bool")
	_, ok = parseBoolEnv("DATEFIELD_BOOL_TEST")
	if ok {
		t.Fatal("expected invalid bool env to return ok=false")
	}
}

// TestBuildFormFallsBackToDefaultField verifies an unconfigured form gets one date field.
func TestBuildFormFallsBackToDefaultField(t *testing.T) {
	cfg := config.Default("/tmp/datefield.db")
	form, err := buildForm(context.Background(), nil, cfg, true)
	if err != nil {
		t.Fatalf("buildForm() error = %v", err)
	}
	if form.Name() != cfg.Form.Name {
		t.Fatalf("unexpected form name %q", form.Name())
	}
	fields := form.Fields()
	if len(fields) != 1 || fields[0].Name() != config.DefaultFieldName || fields[0].Value() != "" {
		t.Fatalf("unexpected default fields %#v", fields)
	}
}

// TestRunDevModeCreatesWorkspaceLogFile verifies behavior for the covered scenario.
func TestRunDevModeCreatesWorkspaceLogFile(t *testing.T) {
	stubProgramFactory(t, func(_ tea.Model) program { return fakeProgram{} })

	workspace := t.TempDir()
	t.Chdir(workspace)

	dbPath := filepath.Join(workspace, "datefield.db")
	cfgPath := filepath.Join(workspace, "missing.toml")
	if err := run(context.Background(), []string{"--dev", "--db", dbPath, "--config", cfgPath, "history"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	logDir := filepath.Join(workspace, ".datefield", "log")
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	foundLog := false
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			foundLog = true
			break
		}
	}
	if !foundLog {
		t.Fatalf("expected at least one .log file in %s, got %v", logDir, entries)
	}
}

// TestRunTUIModeWritesRuntimeLogsToFileOnly verifies TUI runtime logs stay out of stderr and persist to the dev log file.
func TestRunTUIModeWritesRuntimeLogsToFileOnly(t *testing.T) {
	stubProgramFactory(t, func(_ tea.Model) program { return fakeProgram{} })

	workspace := t.TempDir()
	t.Chdir(workspace)

	dbPath := filepath.Join(workspace, "datefield.db")
	cfgPath := filepath.Join(workspace, "missing.toml")
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--db", dbPath, "--config", cfgPath}, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if got := strings.TrimSpace(stderr.String()); got != "" {
		t.Fatalf("expected no runtime stderr output in TUI mode, got %q", got)
	}

	logDir := filepath.Join(workspace, ".datefield", "log")
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var logPath string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		logPath = filepath.Join(logDir, entry.Name())
		break
	}
	if logPath == "" {
		t.Fatalf("expected a .log file in %s", logDir)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "starting tui program loop") {
		t.Fatalf("expected runtime log file to include TUI lifecycle entries, got %q", string(content))
	}
}

// TestWorkspaceRootFromUsesNearestMarker verifies workspace-root resolution behavior.
func TestWorkspaceRootFromUsesNearestMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "cmd", "datefield")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	got := workspaceRootFrom(nested)
	if filepath.Clean(got) != filepath.Clean(root) {
		t.Fatalf("expected workspace root %q, got %q", root, got)
	}
}

// TestDevLogFilePathResolvesAgainstWorkspaceRoot verifies relative log dirs anchor at workspace root.
func TestDevLogFilePathResolvesAgainstWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "cmd", "datefield")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	t.Chdir(nested)

	got, err := devLogFilePath(".datefield/log", "datefield", time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	wantPrefix := filepath.Join(root, ".datefield", "log")
	normalize := func(p string) string {
		return strings.TrimPrefix(filepath.Clean(p), "/private")
	}
	if !strings.HasPrefix(normalize(got), normalize(wantPrefix)) {
		t.Fatalf("expected log path under %q, got %q", wantPrefix, got)
	}
	if filepath.Base(got) != "datefield-20260222.log" {
		t.Fatalf("unexpected log file name %q", filepath.Base(got))
	}
}

// TestSanitizeLogFileStem verifies behavior for the covered scenario.
func TestSanitizeLogFileStem(t *testing.T) {
	cases := map[string]string{
		"":               "datefield",
		"  ":             "datefield",
		"date field":     "date-field",
		"team/datefield": "team-datefield",
		"/":              "datefield",
	}
	for in, want := range cases {
		if got := sanitizeLogFileStem(in); got != want {
			t.Fatalf("sanitizeLogFileStem(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestRunRejectsInvalidLoggingLevelFromConfig verifies behavior for the covered scenario.
func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "datefield.db")
	cfgPath := writeConfig(t, tmp, "[logging]\nlevel = \"verbose\"\n")

	err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected invalid logging level error")
	}
	if !strings.Contains(err.Error(), "invalid logging.level") {
		t.Fatalf("expected logging level validation error, got %v", err)
	}
}

// TestRuntimeLoggerCanMuteConsoleSink verifies behavior for the covered scenario.
func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	cfg := config.Default("/tmp/datefield.db").Logging

	logger, err := newRuntimeLogger(&console, "datefield", false, cfg, func() time.Time {
		return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	if logger.FileLogger() != nil {
		t.Fatal("expected no file sink outside dev mode")
	}

	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") {
		t.Fatalf("expected console log to include 'before', got %q", out)
	}
	if strings.Contains(out, "during") {
		t.Fatalf("expected muted console log to omit 'during', got %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("expected console log to include 'after', got %q", out)
	}
}
