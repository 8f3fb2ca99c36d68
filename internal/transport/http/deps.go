package http

import (
	"github.com/verify-dispatch/internal/application/dispatch"
)

// Deps holds the application dependencies for the router.
type Deps struct {
	Dispatcher dispatch.Service
}
