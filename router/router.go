package router

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/ralim/studybook/observable"
	"github.com/rs/zerolog/log"
)

/*

Router is a very small single page router driven by the URL fragment.

Routes are regular expressions with optional capture groups. They are tried
in the order they were given and the first one that matches wins, there is
no "most specific route" logic. Every handler of the matching route is then
called with the captures. It is up to the handlers to update application
state, usually by writing into cells that the views observe.

*/

var ErrNoRoute = errors.New("no route for path")

// Match is passed to the handlers of a matched route
type Match struct {
	Groups      []string // Groups[0] is the whole match, followed by the captures
	OldFragment string
	NewFragment string
}

// Capture returns the n'th capture group, or "" if there is none
func (m Match) Capture(n int) string {
	if n < 0 || n+1 >= len(m.Groups) {
		return ""
	}
	return m.Groups[n+1]
}

type Handler func(match Match)

type Route struct {
	Pattern *regexp.Regexp
	Show    []Handler
}

func NewRoute(pattern string, handlers ...Handler) (Route, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Route{}, fmt.Errorf("bad route pattern %q - %w", pattern, err)
	}
	return Route{Pattern: re, Show: handlers}, nil
}

// MustRoute is NewRoute for patterns known at compile time
func MustRoute(pattern string, handlers ...Handler) Route {
	route, err := NewRoute(pattern, handlers...)
	if err != nil {
		panic(err)
	}
	return route
}

type Router struct {
	sync.Mutex
	location *Location
	routes   []Route
	started  bool
	misses   int

	listener observable.ID
}

// New creates a stopped router listening to the location
func New(location *Location, routes ...Route) *Router {
	r := &Router{
		location: location,
		routes:   append([]Route{}, routes...),
	}
	r.listener = location.OnChange(r.handleRouting)
	return r
}

// Start enables routing and immediately routes the current fragment
func (r *Router) Start() {
	r.Lock()
	r.started = true
	r.Unlock()
	r.handleRouting("", r.location.Fragment())
}

// Stop pauses routing; the route table is kept so Start can resume it
func (r *Router) Stop() {
	r.Lock()
	defer r.Unlock()
	r.started = false
}

// Close detaches the router from its location for good
func (r *Router) Close() {
	r.Stop()
	r.location.Remove(r.listener)
}

func (r *Router) Add(route Route) {
	r.Lock()
	defer r.Unlock()
	r.routes = append(r.routes, route)
}

// Routes returns a copy of the route table
func (r *Router) Routes() []Route {
	r.Lock()
	defer r.Unlock()
	return append([]Route{}, r.routes...)
}

// Misses is the number of fragments no route matched
func (r *Router) Misses() int {
	r.Lock()
	defer r.Unlock()
	return r.misses
}

// Resolve finds the first route matching the path
func (r *Router) Resolve(path string) (Route, []string, error) {
	for _, route := range r.Routes() {
		if groups := route.Pattern.FindStringSubmatch(path); groups != nil {
			return route, groups, nil
		}
	}
	return Route{}, nil, fmt.Errorf("%w '%s'", ErrNoRoute, path)
}

func (r *Router) handleRouting(oldFragment, newFragment string) {
	r.Lock()
	started := r.started
	r.Unlock()
	if !started {
		return
	}

	path := NormalisePath(newFragment)
	route, groups, err := r.Resolve(path)
	if err != nil {
		r.Lock()
		r.misses++
		r.Unlock()
		log.Error().Err(err).Str("path", path).Msg("Routing failed")
		return
	}

	match := Match{Groups: groups, OldFragment: oldFragment, NewFragment: path}
	log.Debug().Str("path", path).Str("route", route.Pattern.String()).Msg("Routing")
	for _, show := range route.Show {
		show(match)
	}
}
