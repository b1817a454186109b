package communication

import (
	"context"
	"errors"

	"stafflow.com/stafflow/core"
)

// Fanout delivers a notification to every underlying channel, collecting
// failures instead of stopping at the first one.
type Fanout struct {
	notifiers []core.Notifier
}

func NewFanout(notifiers ...core.Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

func (f *Fanout) Notify(ctx context.Context, subject, message string) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, subject, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
