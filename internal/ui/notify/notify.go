package notify

import (
	"errors"

	"fyne.io/fyne/v2"
)

// ErrNoApp is returned when no fyne application is attached.
var ErrNoApp = errors.New("notify: no application")

// Notifier sends desktop banners through fyne.
type Notifier struct {
	app fyne.App
}

// New creates a notifier for app.
func New(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// RequestAuthorization reports whether banners can be delivered. Desktop
// notifications need no runtime permission, so any attached app is granted.
func (notifier *Notifier) RequestAuthorization(callback func(granted bool)) {
	if callback == nil {
		return
	}
	callback(notifier.app != nil)
}

// Notify posts a banner. fyne notifications carry no sound setting, so the
// sound flag cannot be honoured here and the platform default applies.
func (notifier *Notifier) Notify(title, body string, _ bool) error {
	if notifier.app == nil {
		return ErrNoApp
	}
	notifier.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}
