package observable

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ID identifies a validator or observer, ids are never reused within a cell
type ID uint64

// Validator is given the new and the old value and returns false to block the update
type Validator[T any] func(newValue, oldValue T) bool

// Callback is called after the value changed
type Callback[T any] func(newValue, oldValue T)

// Element is something that displays the value as text
type Element interface {
	SetTextContent(text string) // text is shown as-is
	SetMarkup(markup string)    // markup is interpreted, only use with trusted content
}

type binding[T any] struct {
	id       ID
	callback Callback[T]
	async    bool
	element  Element
	escape   bool
}

type validatorEntry[T any] struct {
	id ID
	fn Validator[T]
}

// Cell holds a single value that represents shared application state.
// Components register validators that can veto a change and observers that
// are told about every accepted change, in the order they were registered.
//
// A Set issued while the cell is still notifying observers (from inside an
// observer or from another goroutine) is queued and applied once the running
// notification is done, so observers always see changes one at a time.
type Cell[T any] struct {
	mu         sync.Mutex
	value      T
	sequence   ID
	validators []validatorEntry[T]
	bindings   []binding[T]

	notifying bool
	queue     []T
	pending   sync.WaitGroup
}

// New creates a cell holding value
func New[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Value returns the current value
func (c *Cell[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set changes the value if all validators agree and then notifies observers.
// Rejected updates are dropped without error.
func (c *Cell[T]) Set(newValue T) {
	c.mu.Lock()
	if c.notifying {
		c.queue = append(c.queue, newValue)
		c.mu.Unlock()
		return
	}
	c.notifying = true
	c.mu.Unlock()

	next := newValue
	for {
		c.apply(next)

		c.mu.Lock()
		if len(c.queue) == 0 {
			c.notifying = false
			c.mu.Unlock()
			return
		}
		next = c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
	}
}

// Update sets the value returned by fn for the current value
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.Value()))
}

func (c *Cell[T]) apply(newValue T) {
	c.mu.Lock()
	oldValue := c.value
	validators := make([]validatorEntry[T], len(c.validators))
	copy(validators, c.validators)
	c.mu.Unlock()

	for _, v := range validators {
		if !v.fn(newValue, oldValue) {
			log.Debug().Uint64("validator", uint64(v.id)).Msg("Cell update rejected")
			return
		}
	}

	c.mu.Lock()
	c.value = newValue
	bindings := make([]binding[T], len(c.bindings))
	copy(bindings, c.bindings)
	c.mu.Unlock()

	for _, b := range bindings {
		switch {
		case b.callback != nil && b.async:
			c.pending.Add(1)
			go func(fn Callback[T]) {
				defer c.pending.Done()
				fn(newValue, oldValue)
			}(b.callback)
		case b.callback != nil:
			b.callback(newValue, oldValue)
		case b.element != nil:
			text := fmt.Sprint(newValue)
			if b.escape {
				b.element.SetTextContent(text)
			} else {
				b.element.SetMarkup(text)
			}
		}
	}
}

// Settle blocks until every asynchronous observer started so far has returned
func (c *Cell[T]) Settle() {
	c.pending.Wait()
}

// AddValidator registers a validator that runs before every update
func (c *Cell[T]) AddValidator(fn Validator[T]) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequence++
	c.validators = append(c.validators, validatorEntry[T]{id: c.sequence, fn: fn})
	return c.sequence
}

func (c *Cell[T]) RemoveValidator(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range c.validators {
		if v.id == id {
			c.validators = append(c.validators[:i:i], c.validators[i+1:]...)
			return
		}
	}
}

// Subscribe registers fn to be called after each accepted update
func (c *Cell[T]) Subscribe(fn Callback[T]) ID {
	return c.bind(binding[T]{callback: fn})
}

// SubscribeAsync registers fn to run in its own goroutine after each accepted
// update. Set does not wait for it, and it is not ordered against the
// observers registered after it.
func (c *Cell[T]) SubscribeAsync(fn Callback[T]) ID {
	return c.bind(binding[T]{callback: fn, async: true})
}

// BindElement keeps the content of el in sync with the value.
// With escape set to false the value is written as markup.
func (c *Cell[T]) BindElement(el Element, escape bool) ID {
	return c.bind(binding[T]{element: el, escape: escape})
}

func (c *Cell[T]) bind(b binding[T]) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequence++
	b.id = c.sequence
	c.bindings = append(c.bindings, b)
	return b.id
}

// Unsubscribe removes an observer or element binding. Unknown ids are ignored.
func (c *Cell[T]) Unsubscribe(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, b := range c.bindings {
		if b.id == id {
			c.bindings = append(c.bindings[:i:i], c.bindings[i+1:]...)
			return
		}
	}
}
