package shared

import "context"

// Component is a long-lived part of the server. The server reports each
// component's status and shuts every component down after the transports
// have stopped.
type Component interface {
	// GetType names the component in logs and status reports
	GetType() string

	// Status describes the component's configuration for /info style reports
	Status() map[string]interface{}

	Shutdown(ctx context.Context) error
}
