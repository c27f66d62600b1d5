package tray

import (
	"fmt"
	"strings"
	"time"

	"workwell/internal/core/model"
	"workwell/internal/core/stats"
)

// TodayLabel renders the daily summary line.
func TodayLabel(summary stats.Summary, waterGoalMl int) string {
	parts := []string{fmt.Sprintf("water %d/%d ml", summary.WaterMl, waterGoalMl)}
	parts = append(parts,
		fmt.Sprintf("eyes %d", summary.Completed[model.ReminderEyeRest]),
		fmt.Sprintf("moves %d", summary.Completed[model.ReminderMovement]),
	)
	if summary.Streak > 0 {
		parts = append(parts, fmt.Sprintf("streak %dd", summary.Streak))
	}
	return "Today: " + strings.Join(parts, ", ")
}

// NextLabel describes the earliest pending reminder.
func NextLabel(reminder model.ReminderType, fireAt, now time.Time) string {
	wait := fireAt.Sub(now)
	if wait < 0 {
		wait = 0
	}
	if wait >= 24*time.Hour || fireAt.YearDay() != now.YearDay() {
		return fmt.Sprintf("%s %s", reminder.Title(), fireAt.Format("Mon 15:04"))
	}
	minutes := int(wait.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%s in %d min (%s)", reminder.Title(), minutes, fireAt.Format("15:04"))
}
