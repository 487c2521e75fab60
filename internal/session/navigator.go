package session

import (
	"slices"
	"sync"
)

// Navigator moves the user interface to another route. The Manager uses it
// to force re-authentication.
type Navigator interface {
	CurrentRoute() string
	Navigate(route string)
}

// Router is an in-memory Navigator that remembers every route visited. The
// console apps keep their current route in one.
type Router struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewRouter(start string) *Router {
	return &Router{current: start}
}

func (r *Router) CurrentRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.history = append(r.history, route)
}

// History lists the routes passed to Navigate, oldest first. Tests use it to
// check where the Manager sent the user.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}
