package platform

import (
	"strings"

	"github.com/hylla/datefield/internal/calendar"
)

// Env is a lookup over environment variables, usually os.LookupEnv.
type Env func(key string) (string, bool)

// MapEnv adapts a fixed map to Env.
func MapEnv(values map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// DetectWeekStart reads the locale variables in POSIX precedence order.
// en_US locales start the week on Sunday; everything else, including no locale, on Monday.
func DetectWeekStart(env Env) calendar.WeekStart {
	if env == nil {
		return calendar.WeekStartMonday
	}
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v, ok := env(key)
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			continue
		}
		tag := strings.ToLower(strings.ReplaceAll(v, "-", "_"))
		if strings.HasPrefix(tag, "en_us") {
			return calendar.WeekStartSunday
		}
		return calendar.WeekStartMonday
	}
	return calendar.WeekStartMonday
}

// HasOrientation reports whether the host looks like a touch device, where the
// popup is skipped in favor of plain text entry.
func HasOrientation(env Env) bool {
	if env == nil {
		return false
	}
	if v, ok := env("TERMUX_VERSION"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	v, _ := env("DATEFIELD_NATIVE")
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
