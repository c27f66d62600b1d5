package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"workwell/internal/core/model"
)

const preferencesFileName = "preferences.yaml"

// Pointer fields tell a key missing from the file apart from a false or
// zero value, so missing keys keep their defaults.
type yamlReminder struct {
	Enabled         *bool `yaml:"enabled"`
	IntervalMinutes *int  `yaml:"interval_minutes"`
	FocusMode       *bool `yaml:"focus_mode"`
	SnoozeOnSkip    *bool `yaml:"snooze_on_skip"`
}

type yamlLunch struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type yamlNotification struct {
	Banner *bool `yaml:"banner"`
	Sound  *bool `yaml:"sound"`
	Haptic *bool `yaml:"haptic"`
}

type yamlPreferences struct {
	WorkStart               string                  `yaml:"work_start"`
	WorkEnd                 string                  `yaml:"work_end"`
	Lunch                   *yamlLunch              `yaml:"lunch,omitempty"`
	Reminders               map[string]yamlReminder `yaml:"reminders"`
	SnoozeMinutes           int                     `yaml:"snooze_minutes"`
	Notification            *yamlNotification       `yaml:"notification"`
	DisplayStyle            string                  `yaml:"display_style"`
	DefaultGlassMl          int                     `yaml:"default_glass_ml"`
	WeightKg                float64                 `yaml:"weight_kg"`
	WaterGoalMl             *int                    `yaml:"water_goal_ml,omitempty"`
	EyeRestCountdownSeconds int                     `yaml:"eye_rest_countdown_seconds"`
	EyeRestSilent           *bool                   `yaml:"eye_rest_silent"`
	MovementFocusSeconds    int                     `yaml:"movement_focus_seconds"`
}

// PreferencesStore keeps the user's preferences in a YAML file.
type PreferencesStore struct {
	path string
}

// NewPreferencesStore stores preferences under the user config directory.
func NewPreferencesStore(appName string) (*PreferencesStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewPreferencesStoreAt(filepath.Join(configDir, appName, preferencesFileName)), nil
}

// NewPreferencesStoreAt stores preferences at an explicit path.
func NewPreferencesStoreAt(path string) *PreferencesStore {
	return &PreferencesStore{path: path}
}

// Path returns the file location.
func (store *PreferencesStore) Path() string {
	return store.path
}

// Load reads preferences. A missing file yields the defaults; fields that
// are absent or unparseable keep their default values.
func (store *PreferencesStore) Load() (model.Preferences, error) {
	prefs := model.DefaultPreferences()
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences file: %w", err)
	}

	var fileData yamlPreferences
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return prefs, fmt.Errorf("parse preferences yaml: %w", err)
	}

	applyYamlPreferences(&prefs, fileData)
	return prefs, nil
}

// Save writes preferences, creating the directory when needed.
func (store *PreferencesStore) Save(prefs model.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlPreferences{
		WorkStart:     prefs.WorkStart.String(),
		WorkEnd:       prefs.WorkEnd.String(),
		Reminders:     make(map[string]yamlReminder, len(prefs.Reminders)),
		SnoozeMinutes: prefs.SnoozeMinutes,
		Notification: &yamlNotification{
			Banner: boolRef(prefs.Notification.Banner),
			Sound:  boolRef(prefs.Notification.Sound),
			Haptic: boolRef(prefs.Notification.Haptic),
		},
		DisplayStyle:            string(prefs.DisplayStyle),
		DefaultGlassMl:          prefs.DefaultGlassMl,
		WeightKg:                prefs.WeightKg,
		WaterGoalMl:             prefs.WaterGoalMlOverride,
		EyeRestCountdownSeconds: prefs.EyeRestCountdownSeconds,
		EyeRestSilent:           boolRef(prefs.EyeRestSilent),
		MovementFocusSeconds:    prefs.MovementFocusSeconds,
	}
	if prefs.Lunch != nil {
		fileData.Lunch = &yamlLunch{Start: prefs.Lunch.Start.String(), End: prefs.Lunch.End.String()}
	}
	for reminder, settings := range prefs.Reminders {
		interval := settings.IntervalMinutes
		fileData.Reminders[string(reminder)] = yamlReminder{
			Enabled:         boolRef(settings.Enabled),
			IntervalMinutes: &interval,
			FocusMode:       boolRef(settings.FocusMode),
			SnoozeOnSkip:    boolRef(settings.SnoozeOnSkip),
		}
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal preferences yaml: %w", err)
	}
	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write preferences file: %w", err)
	}
	return nil
}

func applyYamlPreferences(prefs *model.Preferences, fileData yamlPreferences) {
	if tod, err := model.ParseTimeOfDay(fileData.WorkStart); err == nil {
		prefs.WorkStart = tod
	}
	if tod, err := model.ParseTimeOfDay(fileData.WorkEnd); err == nil {
		prefs.WorkEnd = tod
	}
	if fileData.Lunch != nil {
		start, startErr := model.ParseTimeOfDay(fileData.Lunch.Start)
		end, endErr := model.ParseTimeOfDay(fileData.Lunch.End)
		if startErr == nil && endErr == nil {
			prefs.Lunch = &model.LunchWindow{Start: start, End: end}
		}
	}

	for name, fileSettings := range fileData.Reminders {
		reminder, err := model.ParseReminderType(name)
		if err != nil {
			continue
		}
		settings := prefs.Reminders[reminder]
		mergeBool(&settings.Enabled, fileSettings.Enabled)
		mergeBool(&settings.FocusMode, fileSettings.FocusMode)
		mergeBool(&settings.SnoozeOnSkip, fileSettings.SnoozeOnSkip)
		if fileSettings.IntervalMinutes != nil && *fileSettings.IntervalMinutes > 0 {
			settings.IntervalMinutes = *fileSettings.IntervalMinutes
		}
		prefs.Reminders[reminder] = settings
	}

	if fileData.SnoozeMinutes > 0 {
		prefs.SnoozeMinutes = fileData.SnoozeMinutes
	}
	if fileData.Notification != nil {
		mergeBool(&prefs.Notification.Banner, fileData.Notification.Banner)
		mergeBool(&prefs.Notification.Sound, fileData.Notification.Sound)
		mergeBool(&prefs.Notification.Haptic, fileData.Notification.Haptic)
	}

	switch style := model.DisplayStyle(fileData.DisplayStyle); style {
	case model.DisplayModern, model.DisplayMinimal, model.DisplayBold:
		prefs.DisplayStyle = style
	}

	if fileData.DefaultGlassMl > 0 {
		prefs.DefaultGlassMl = fileData.DefaultGlassMl
	}
	if fileData.WeightKg > 0 {
		prefs.WeightKg = fileData.WeightKg
	}
	if fileData.WaterGoalMl != nil && *fileData.WaterGoalMl > 0 {
		goal := *fileData.WaterGoalMl
		prefs.WaterGoalMlOverride = &goal
	}
	if fileData.EyeRestCountdownSeconds > 0 {
		prefs.EyeRestCountdownSeconds = fileData.EyeRestCountdownSeconds
	}
	mergeBool(&prefs.EyeRestSilent, fileData.EyeRestSilent)
	if fileData.MovementFocusSeconds > 0 {
		prefs.MovementFocusSeconds = fileData.MovementFocusSeconds
	}
}

func mergeBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func boolRef(value bool) *bool {
	return &value
}
