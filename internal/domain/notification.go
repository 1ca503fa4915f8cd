package domain

import "time"

// Notification is a user-facing toast: success and error reporting from the
// gallery and play-session layers both flow through this shape.
type Notification struct {
	Message string
	Icon    string
	Color   string
	Timeout time.Duration // 0 = sticky until dismissed
}

// Notifier delivers notifications to whatever front end is attached.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Convenience constructors used across services.

func SuccessNotification(msg string) Notification {
	return Notification{Message: msg, Icon: "check", Color: "green", Timeout: 4 * time.Second}
}

func ErrorNotification(msg string) Notification {
	return Notification{Message: msg, Icon: "cross", Color: "red"}
}
