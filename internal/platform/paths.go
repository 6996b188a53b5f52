package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoBaseDir is returned when no config or data root is known.
var ErrNoBaseDir = errors.New("no base directory")

const defaultAppName = "datefield"

// Paths locates the config file and the database of one app.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// Options selects the per-app directory name.
type Options struct {
	AppName string
	DevMode bool
}

// DirName returns the per-app directory name; dev mode appends "-dev".
func (o Options) DirName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = defaultAppName
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// Bases are the per-user roots the app directories hang off.
type Bases struct {
	Config string
	Data   string
}

// overrideVars names, per GOOS, the variables that replace the config and data roots.
var overrideVars = map[string]struct{ config, data string }{
	"linux":   {config: "XDG_CONFIG_HOME", data: "XDG_DATA_HOME"},
	"windows": {config: "APPDATA", data: "LOCALAPPDATA"},
}

// UserBases asks the OS for the current user's roots. On linux data goes
// under ~/.local/share instead of next to the config.
func UserBases() (Bases, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return Bases{}, fmt.Errorf("user config dir: %w", err)
	}
	b := Bases{Config: cfg, Data: cfg}
	if runtime.GOOS == "linux" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Bases{}, fmt.Errorf("user home dir: %w", err)
		}
		b.Data = filepath.Join(home, ".local", "share")
	}
	return b, nil
}

// Resolve lays out the app paths for the running OS.
func Resolve(opts Options, env Env) (Paths, error) {
	bases, err := UserBases()
	if err != nil {
		return Paths{}, err
	}
	return Layout(runtime.GOOS, env, bases, opts)
}

// Layout applies the overrides known for goos to bases and places the app
// directory under each root. darwin and unknown systems keep bases as given.
func Layout(goos string, env Env, bases Bases, opts Options) (Paths, error) {
	if vars, ok := overrideVars[goos]; ok {
		if v := lookup(env, vars.config); v != "" {
			bases.Config = v
		}
		if v := lookup(env, vars.data); v != "" {
			bases.Data = v
		}
	}
	if bases.Config == "" || bases.Data == "" {
		return Paths{}, ErrNoBaseDir
	}

	dir := opts.DirName()
	dataDir := filepath.Join(bases.Data, dir)
	return Paths{
		ConfigPath: filepath.Join(bases.Config, dir, "config.toml"),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, dir+".db"),
	}, nil
}

func lookup(env Env, key string) string {
	if env == nil {
		return ""
	}
	v, _ := env(key)
	return strings.TrimSpace(v)
}
