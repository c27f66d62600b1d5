package main

import (
	"context"
	"flag"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"workwell/internal/config"
	"workwell/internal/core/clock"
	"workwell/internal/core/coordinator"
	"workwell/internal/core/model"
	"workwell/internal/core/scheduler"
	"workwell/internal/core/service"
	"workwell/internal/platform"
	"workwell/internal/storage"
	"workwell/internal/ui/notify"
	"workwell/internal/ui/overlay"
	"workwell/internal/ui/tray"
)

const statusRefresh = 30 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "Path to runtime configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lock, err := platform.AcquireInstanceLock(config.AppName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	if err := platform.NewAutostart(config.AppName).Apply(cfg.Autostart); err != nil {
		log.Printf("autostart: %v", err)
	}

	eventLog, err := storage.OpenEventLog(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("open event log: %v", err)
	}
	defer eventLog.Close()

	fyneApp := app.NewWithID("com.workwell.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(config.AppName)
	trayWindow.SetContent(widget.NewLabel("WorkWell is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	preferencesStore := storage.NewPreferencesStoreAt(cfg.PreferencesPath())
	svc := service.New(service.Options{
		Clock:       clock.Real{},
		Store:       preferencesStore,
		EventLog:    eventLog,
		Notifier:    notify.New(fyneApp),
		EventBuffer: cfg.EventBuffer,
	})

	overlayWindow := overlay.New(fyneApp, overlay.Actions{
		OnDone:       svc.Done,
		OnSkip:       svc.Skip,
		OnKeyDismiss: svc.KeyDismiss,
		Current:      svc.ActiveState,
	}, service.Prompt, nil)

	var trayManager *tray.Manager
	refreshTray := func() {
		paused, until := svc.Paused()
		trayManager.SetPaused(paused)
		trayManager.SetStatus(statusLine(svc, paused, until))
		if summary, err := svc.Today(); err == nil {
			trayManager.SetToday(tray.TodayLabel(summary, svc.WaterGoalMl()))
		} else {
			log.Printf("[tray] today: %v", err)
		}
	}

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnPreview: func(reminder model.ReminderType) {
			if err := svc.Show(reminder); err != nil {
				log.Printf("[tray] preview %s: %v", reminder, err)
			}
		},
		OnTogglePause: func() {
			if paused, _ := svc.Paused(); paused {
				if err := svc.Resume(); err != nil {
					log.Printf("[tray] resume: %v", err)
				}
			} else {
				svc.Pause()
			}
			refreshTray()
		},
		OnPauseFor: func(duration time.Duration) {
			svc.PauseFor(duration)
			refreshTray()
		},
		OnSnooze: func() {
			if err := svc.SnoozeActive(); err != nil {
				log.Printf("[tray] snooze: %v", err)
			}
		},
		OnQuit: func() {
			svc.Stop()
			fyneApp.Quit()
		},
	})

	presentation := svc.Coordinator().Subscribe(cfg.EventBuffer)
	sessions := svc.SubscribeSessions(cfg.EventBuffer)
	trayPresentation := svc.Coordinator().Subscribe(cfg.EventBuffer)
	schedule := svc.Engine().Subscribe(cfg.EventBuffer)

	if err := svc.Start(); err != nil {
		log.Printf("start: %v", err)
	}
	overlayWindow.SetStyle(svc.Preferences().DisplayStyle)

	if cfg.Idle.Enabled {
		watcher := scheduler.NewIdleWatcher(svc.Engine(), platform.NewIdleProvider(), scheduler.IdleConfig{
			ResetAfter:    cfg.Idle.ResetAfter(),
			CheckInterval: cfg.Idle.CheckInterval(),
		})
		watcher.Start()
		defer watcher.Stop()
	}

	if cfg.WatchPreferences {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		prefsWatcher, err := storage.WatchPreferences(preferencesStore.Path(), func() {
			if err := svc.ReloadPreferences(); err != nil {
				log.Printf("[service] reload preferences: %v", err)
				return
			}
			style := svc.Preferences().DisplayStyle
			fyne.Do(func() {
				overlayWindow.SetStyle(style)
				refreshTray()
			})
		}, nil)
		if err != nil {
			log.Printf("watch preferences: %v", err)
		} else {
			defer prefsWatcher.Close()
			go prefsWatcher.Run(ctx)
		}
	}

	go overlayWindow.Follow(presentation, sessions)
	go followTray(trayManager, trayPresentation, schedule, refreshTray)

	refreshTray()
	fyneApp.Run()
}

// followTray keeps the tray in step with presentation and schedule changes.
func followTray(trayManager *tray.Manager, presentation <-chan coordinator.Event, schedule <-chan scheduler.Event, refresh func()) {
	ticker := time.NewTicker(statusRefresh)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-presentation:
			if !ok {
				return
			}
			active := event.Active != ""
			fyne.Do(func() {
				trayManager.SetActive(active)
				refresh()
			})
		case event, ok := <-schedule:
			if !ok {
				return
			}
			if event.Type == scheduler.EventIdleError {
				log.Printf("[tray] idle check: %s", event.Message)
			}
			fyne.Do(refresh)
		case <-ticker.C:
			fyne.Do(refresh)
		}
	}
}

func statusLine(svc *service.Service, paused bool, until time.Time) string {
	if paused {
		if until.IsZero() {
			return "paused"
		}
		return "paused until " + until.Format("15:04")
	}
	pending := svc.Engine().Pending()
	if len(pending) == 0 {
		return "no reminders scheduled"
	}
	next := pending[0]
	return tray.NextLabel(next.Type, next.FireAt, time.Now())
}
