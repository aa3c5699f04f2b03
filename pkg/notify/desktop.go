package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsMethod = "org.freedesktop.Notifications.Notify"

	appName = "triplog"
	// expireMillis is how long the desktop keeps the warning up
	expireMillis = int32(10000)
)

// caller is the part of a dbus object the notifier calls
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// 🪟 Desktop sends freedesktop notifications over the session bus
type Desktop struct {
	// connect returns the notifications object and a func that releases it
	connect func(ctx context.Context) (caller, func() error, error)
}

var _ Notifier = (*Desktop)(nil)

// NewDesktop creates a notifier on the user's session bus
func NewDesktop() *Desktop {
	return &Desktop{connect: sessionBus}
}

func sessionBus(ctx context.Context) (caller, func() error, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, nil, errors.Errorf("connecting to session bus: %w", err)
	}
	return conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath)), conn.Close, nil
}

func (d *Desktop) Warn(ctx context.Context, title, message string) error {
	obj, release, err := d.connect(ctx)
	if err != nil {
		return err
	}
	defer release()

	call := obj.CallWithContext(ctx, notificationsMethod, 0,
		appName,
		uint32(0),        // replaces_id
		"dialog-warning", // app_icon
		title,
		message,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(2)),
		},
		expireMillis,
	)
	if call.Err != nil {
		return errors.Errorf("sending desktop notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		zerolog.Ctx(ctx).Debug().Uint32("notification_id", id).Msg("desktop notification sent")
	}
	return nil
}
