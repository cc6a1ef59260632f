// Package notify relays stored records to a fixed recipient by email.
//
// A Notifier is built once at startup from a config.Mail value:
//
//	n := notify.New(cfg.Mail(), notify.WithLogger(logger))
//	if err := n.Notify(ctx, rec); err != nil {
//	    // *NotificationError; the record is already stored
//	}
//
// When the sender, credential or recipient is missing, Notify returns a
// NotificationError wrapping ErrNotConfigured without opening a connection.
// Otherwise it sends one plain-text message over an authenticated SMTPS
// session and closes the session. Failed sends are not retried.
package notify
