package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

// AppName names the per-user config and data directory.
const AppName = "WorkWell"

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":          "",
		"database":          "workwell.db",
		"preferences_file":  "preferences.yaml",
		"autostart":         false,
		"watch_preferences": true,
		"event_buffer":      32,
		"idle": map[string]interface{}{
			"enabled":                true,
			"reset_after_seconds":    300,
			"check_interval_seconds": 5,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
