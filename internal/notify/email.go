// Package notify delivers e-mail notifications through a background job
// queue so that request handlers never wait on a mail server.
package notify

import (
	"context"
	"errors"
)

// Kind tags what a notification is about.
type Kind string

const (
	KindOTP      Kind = "otp"
	KindApproval Kind = "approval"
	KindAlert    Kind = "alert"
)

// Email is a single outgoing message.
type Email struct {
	Kind     Kind
	UserID   string
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// ErrNoRecipient is returned for messages without an address.
var ErrNoRecipient = errors.New("notification has no recipient")

// Notifier delivers a message synchronously.
type Notifier interface {
	Send(ctx context.Context, msg Email) error
}

// Dispatcher accepts messages for asynchronous delivery. Submit must not block
// on delivery; an error means the message was not accepted.
type Dispatcher interface {
	Submit(msg Email) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Email) error

// Send calls f.
func (f NotifierFunc) Send(ctx context.Context, msg Email) error {
	return f(ctx, msg)
}

// Discard accepts and drops every message.
type Discard struct{}

// Submit drops msg.
func (Discard) Submit(Email) error { return nil }
