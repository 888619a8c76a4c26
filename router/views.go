package router

import (
	"regexp"
	"sync"

	"github.com/ralim/studybook/observable"
	"github.com/rs/zerolog/log"
)

// Views is the declarative flavour of the router. Instead of one route table
// there is a set of mounted View instances that each decide for themselves
// whether they show their content. A View without a pattern is a fallback and
// is only shown when no patterned View matched.
//
// Each fragment change triggers exactly one pass over all mounted views,
// innermost (most recently mounted) first.

type matchState int

const (
	matchUnknown matchState = iota
	matchYes
	matchNo
)

// View is a single mounted route view
type View struct {
	pattern *regexp.Regexp
	// Rerender makes the view render again when it matches a second time in a row
	Rerender bool
	// Render is called with true to show the children and false to clear them
	Render func(show bool)

	state   matchState
	showing bool
	owner   *Views
}

// NewView creates a view for the pattern, an empty pattern creates a fallback
func NewView(pattern string, render func(show bool)) (*View, error) {
	v := &View{Rerender: true, Render: render}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		v.pattern = re
	}
	return v, nil
}

// IsFallback is true for views without pattern
func (v *View) IsFallback() bool {
	return v.pattern == nil
}

// Show reports whether the children are currently shown. This is what a
// render outside of a routing pass must use; it never matches again.
func (v *View) Show() bool {
	if v.owner != nil {
		v.owner.Lock()
		defer v.owner.Unlock()
	}
	return v.showing
}

// matches evaluates the pattern once per pass and caches the result until
// the next pass clears it. Mount clears it for a view joining a live pass.
func (v *View) matches(path string) bool {
	if v.state == matchUnknown {
		if v.pattern.MatchString(path) {
			v.state = matchYes
		} else {
			v.state = matchNo
		}
	}
	return v.state == matchYes
}

type renderCall struct {
	view *View
	show bool
}

type Views struct {
	sync.Mutex
	location *Location
	mounted  []*View
	path     string
	live     bool
	matched  bool // result of the last pass
	passes   int

	listener observable.ID
}

func NewViews(location *Location) *Views {
	return &Views{location: location}
}

// Start hooks the registry to the location and runs the first pass
func (vs *Views) Start() {
	vs.Lock()
	if vs.live {
		vs.Unlock()
		return
	}
	vs.live = true
	vs.path = vs.location.Path()
	vs.Unlock()
	vs.listener = vs.location.OnChange(func(oldFragment, newFragment string) {
		vs.Pass(newFragment)
	})
	vs.Pass(vs.location.Fragment())
}

func (vs *Views) Close() {
	vs.Lock()
	wasLive := vs.live
	vs.live = false
	vs.Unlock()
	if wasLive {
		vs.location.Remove(vs.listener)
	}
}

// Passes counts the routing passes run so far
func (vs *Views) Passes() int {
	vs.Lock()
	defer vs.Unlock()
	return vs.passes
}

// Mount adds the view. If routing is already live the view is matched
// against the current path right away, which is what happens to nested
// views created while their parent renders.
func (vs *Views) Mount(v *View) {
	vs.Lock()
	v.owner = vs
	v.state = matchUnknown
	v.showing = false
	vs.mounted = append(vs.mounted, v)
	if !vs.live {
		vs.Unlock()
		return
	}

	calls := []renderCall{}
	vs.matched = vs.anyMatched()
	if v.IsFallback() {
		v.showing = !vs.matched
	} else {
		v.showing = v.matches(vs.path)
		if v.showing && !vs.matched {
			// fallbacks that were showing must make way
			vs.matched = true
			calls = vs.fallbackCalls()
		}
	}
	if v.showing {
		calls = append(calls, renderCall{view: v, show: true})
	}
	vs.Unlock()
	vs.render(calls)
}

// Unmount removes the view without rendering it. If it was the last
// patterned view showing, the fallbacks are shown.
func (vs *Views) Unmount(v *View) {
	vs.Lock()
	found := false
	for i, m := range vs.mounted {
		if m == v {
			vs.mounted = append(vs.mounted[:i:i], vs.mounted[i+1:]...)
			v.owner = nil
			found = true
			break
		}
	}
	if !found || !vs.live {
		vs.Unlock()
		return
	}

	calls := []renderCall{}
	wasMatched := vs.matched
	vs.matched = vs.anyMatched()
	if wasMatched && !vs.matched {
		for i := len(vs.mounted) - 1; i >= 0; i-- {
			f := vs.mounted[i]
			if f.IsFallback() && !f.showing {
				f.showing = true
				calls = append(calls, renderCall{view: f, show: true})
			}
		}
	}
	vs.Unlock()
	vs.render(calls)
}

// anyMatched reports whether a mounted patterned view is showing, vs must be locked
func (vs *Views) anyMatched() bool {
	for _, v := range vs.mounted {
		if !v.IsFallback() && v.showing {
			return true
		}
	}
	return false
}

// Pass lets every mounted view match the fragment and renders the ones that
// changed. It returns whether any patterned view matched.
func (vs *Views) Pass(fragment string) bool {
	path := NormalisePath(fragment)

	vs.Lock()
	vs.passes++
	vs.path = path
	snapshot := make([]*View, len(vs.mounted))
	for i, v := range vs.mounted {
		snapshot[len(vs.mounted)-1-i] = v
	}

	for _, v := range snapshot {
		v.state = matchUnknown
	}

	calls := []renderCall{}
	matched := false
	for _, v := range snapshot {
		if v.IsFallback() {
			continue
		}
		isMatch := v.matches(path)
		switch {
		case isMatch && (!v.showing || v.Rerender):
			calls = append(calls, renderCall{view: v, show: true})
		case !isMatch && v.showing:
			calls = append(calls, renderCall{view: v, show: false})
		}
		v.showing = isMatch
		matched = matched || isMatch
	}
	vs.matched = matched

	for _, v := range snapshot {
		if !v.IsFallback() {
			continue
		}
		show := !matched
		if show != v.showing || (show && v.Rerender) {
			calls = append(calls, renderCall{view: v, show: show})
		}
		v.showing = show
	}
	vs.Unlock()

	if !matched {
		log.Debug().Str("path", path).Msg("No route view matched, showing fallback")
	}
	vs.render(calls)
	return matched
}

// fallbackCalls hides every showing fallback, vs must be locked
func (vs *Views) fallbackCalls() []renderCall {
	calls := []renderCall{}
	for i := len(vs.mounted) - 1; i >= 0; i-- {
		v := vs.mounted[i]
		if v.IsFallback() && v.showing {
			v.showing = false
			calls = append(calls, renderCall{view: v, show: false})
		}
	}
	return calls
}

func (vs *Views) render(calls []renderCall) {
	for _, c := range calls {
		if c.view.Render != nil {
			c.view.Render(c.show)
		}
	}
}
