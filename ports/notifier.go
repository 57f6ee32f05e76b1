package ports

import "context"

// ParserNotifier tells the downstream parser service that the active
// packet structure changed
type ParserNotifier interface {
	// NotifyStructureUpdate performs the notification with a bounded wait;
	// a timeout or non-2xx response is an error
	NotifyStructureUpdate(ctx context.Context) error
}
