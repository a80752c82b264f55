//go:build linux || freebsd || openbsd || netbsd || dragonfly

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	busPath    = "/org/freedesktop/Notifications"
	expireMsec = 5000
)

// sendNotification calls org.freedesktop.Notifications.Notify on the
// session bus.
func sendNotification(title, body, icon string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)),
	}
	if icon != "" {
		hints["image-path"] = dbus.MakeVariant(icon)
	}
	obj := conn.Object(busName, dbus.ObjectPath(busPath))
	call := obj.Call(busName+".Notify", 0,
		"shotmark", uint32(0), icon, title, body, []string{}, hints, int32(expireMsec))
	return call.Err
}
