package router

import (
	"strings"

	"github.com/ralim/studybook/observable"
)

// Location owns the URL fragment (the part after '#'), which is the only
// routing signal of the application. Listeners registered with OnChange are
// the equivalent of a hashchange handler.
type Location struct {
	fragment *observable.Cell[string]
}

func NewLocation(initial string) *Location {
	loc := &Location{
		fragment: observable.New(trimHash(initial)),
	}
	// Assigning the same fragment again does not produce a change event
	loc.fragment.AddValidator(func(newValue, oldValue string) bool {
		return newValue != oldValue
	})
	return loc
}

// Fragment returns the raw fragment without the leading '#'
func (l *Location) Fragment() string {
	return l.fragment.Value()
}

// Path returns the fragment normalised for routing
func (l *Location) Path() string {
	return NormalisePath(l.fragment.Value())
}

// Navigate changes the fragment, "#/a" and "/a" are the same
func (l *Location) Navigate(fragment string) {
	l.fragment.Set(trimHash(fragment))
}

// OnChange registers a listener for fragment changes
func (l *Location) OnChange(fn func(oldFragment, newFragment string)) observable.ID {
	return l.fragment.Subscribe(func(newValue, oldValue string) {
		fn(oldValue, newValue)
	})
}

func (l *Location) Remove(id observable.ID) {
	l.fragment.Unsubscribe(id)
}

// NormalisePath maps the empty fragment onto "/"
func NormalisePath(fragment string) string {
	fragment = trimHash(fragment)
	if fragment == "" {
		return "/"
	}
	return fragment
}

func trimHash(fragment string) string {
	return strings.TrimPrefix(fragment, "#")
}
