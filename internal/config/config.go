package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hylla/datefield/internal/calendar"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultFieldName names the single field used when no fields are configured.
const DefaultFieldName = "date"

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Locale   LocaleConfig   `toml:"locale"`
	Form     FormConfig     `toml:"form"`
	Picker   PickerConfig   `toml:"picker"`
	Keys     KeyConfig      `toml:"keys"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LocaleConfig struct {
	WeekStart  string `toml:"week_start"` // auto | sunday | monday
	HourFormat string `toml:"hour_format"`
}

type FormConfig struct {
	Name   string        `toml:"name"`
	Fields []FieldConfig `toml:"fields"`
}

type FieldConfig struct {
	Name    string `toml:"name"`
	Label   string `toml:"label"`
	Default string `toml:"default"`
}

type PickerConfig struct {
	FieldWidth int `toml:"field_width"`
}

// KeyConfig overrides picker bindings. Blank entries keep the built-in keys.
type KeyConfig struct {
	Toggle   string `toml:"toggle"`
	Close    string `toml:"close"`
	Clear    string `toml:"clear"`
	NextWeek string `toml:"next_week"`
	PrevWeek string `toml:"prev_week"`
	NextDay  string `toml:"next_day"`
	PrevDay  string `toml:"prev_day"`
}

type LoggingConfig struct {
	Level   string           `toml:"level"`
	DevFile DevFileLogConfig `toml:"dev_file"`
}

type DevFileLogConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Locale: LocaleConfig{
			WeekStart:  "auto",
			HourFormat: string(calendar.HourFormat24),
		},
		Form: FormConfig{
			Name: "datefield",
		},
		Picker: PickerConfig{
			FieldWidth: 24,
		},
		Keys: KeyConfig{
			Toggle:   "space",
			Close:    "esc",
			Clear:    "backspace",
			NextWeek: "j",
			PrevWeek: "k",
			NextDay:  "l",
			PrevDay:  "h",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileLogConfig{
				Enabled: true,
				Dir:     ".datefield/log",
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Locale.WeekStart)) {
	case "", "auto":
	default:
		if _, err := calendar.ParseWeekStart(c.Locale.WeekStart); err != nil {
			return fmt.Errorf("invalid locale.week_start: %q", c.Locale.WeekStart)
		}
	}
	if strings.TrimSpace(c.Locale.HourFormat) != "" {
		if _, err := calendar.ParseHourFormat(c.Locale.HourFormat); err != nil {
			return fmt.Errorf("invalid locale.hour_format: %q", c.Locale.HourFormat)
		}
	}

	if strings.TrimSpace(c.Form.Name) == "" {
		return errors.New("form.name is required")
	}
	seen := map[string]struct{}{}
	for idx, field := range c.Form.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("form.fields[%d].name is required", idx)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("form.fields[%d].name is duplicated: %s", idx, name)
		}
		seen[name] = struct{}{}
		if def := strings.TrimSpace(field.Default); def != "" {
			if _, ok := calendar.ParseISO(def); !ok {
				return fmt.Errorf("form.fields[%d].default must be YYYY-MM-DD: %q", idx, field.Default)
			}
		}
	}

	if c.Picker.FieldWidth < calendar.Cols*3 {
		return fmt.Errorf("picker.field_width must be >= %d", calendar.Cols*3)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when dev_file is enabled")
	}

	return nil
}

// FormFields returns the configured fields, or a single default field when none are set.
func (c Config) FormFields() []FieldConfig {
	if len(c.Form.Fields) == 0 {
		return []FieldConfig{{Name: DefaultFieldName, Label: "Date"}}
	}
	out := make([]FieldConfig, 0, len(c.Form.Fields))
	for _, field := range c.Form.Fields {
		out = append(out, FieldConfig{
			Name:    strings.TrimSpace(field.Name),
			Label:   strings.TrimSpace(field.Label),
			Default: strings.TrimSpace(field.Default),
		})
	}
	return out
}

// ResolveWeekStart returns the configured week start, or detected when set to auto.
func (c Config) ResolveWeekStart(detected calendar.WeekStart) calendar.WeekStart {
	ws, err := calendar.ParseWeekStart(c.Locale.WeekStart)
	if err != nil {
		return detected
	}
	return ws
}

// ResolveLocale builds the calendar locale, falling back to detected for the week start.
func (c Config) ResolveLocale(detected calendar.WeekStart) calendar.Locale {
	loc := calendar.DefaultLocale()
	loc.WeekStart = c.ResolveWeekStart(detected)
	if hf, err := calendar.ParseHourFormat(c.Locale.HourFormat); err == nil {
		loc.HourFormat = hf
	}
	return loc
}

// ErrConfigExists is returned by Write when the target file is present and overwrite is off.
var ErrConfigExists = errors.New("config file already exists")

// Write validates cfg and encodes it as TOML at path, creating parent dirs.
func Write(path string, cfg Config, overwrite bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("write config: empty path")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
