//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package notify

// sendNotification is a no-op where there is no notification bus.
func sendNotification(title, body, icon string) error {
	return nil
}
