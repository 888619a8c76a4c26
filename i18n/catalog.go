package i18n

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Catalog holds the messages of the active language. It is built by layering
// the fallback language, the active language and any overrides registered for
// the active language, in that order.
//
// Readers keep seeing the previous messages while a new language is loading.
// Activations are serialised and a result that is older than the most
// recently requested language is dropped.
type Catalog struct {
	source   Source
	fallback string

	lock      sync.RWMutex
	overrides map[string]Tree
	current   Tree
	language  string

	buildLock  sync.Mutex // serialises activations
	requested  uint64
	generation uint64
}

// NewCatalog creates an empty catalogue, call Activate to load a language
func NewCatalog(source Source, fallback string) (*Catalog, error) {
	code, err := CanonicalCode(fallback)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		source:    source,
		fallback:  code,
		overrides: map[string]Tree{},
		current:   Tree{},
	}, nil
}

func (c *Catalog) Fallback() string { return c.fallback }

// Build creates the merged message tree for the language without changing
// the active catalogue
func (c *Catalog) Build(ctx context.Context, code string) (Tree, error) {
	code, err := CanonicalCode(code)
	if err != nil {
		return nil, err
	}
	base, err := c.source.Load(ctx, c.fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback language %s unavailable - %w", c.fallback, err)
	}
	result := Tree{}
	if err := Merge(result, base); err != nil {
		return nil, err
	}

	if code != c.fallback {
		active, err := c.source.Load(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("language %s unavailable - %w", code, err)
		}
		if err := Merge(result, active); err != nil {
			return nil, err
		}
	}

	c.lock.RLock()
	overrides, ok := c.overrides[code]
	if ok {
		overrides = overrides.Clone()
	}
	c.lock.RUnlock()
	if ok {
		if err := Merge(result, overrides); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Activate builds the language and makes it the active catalogue
func (c *Catalog) Activate(ctx context.Context, code string) error {
	c.lock.Lock()
	c.requested++
	ticket := c.requested
	c.lock.Unlock()

	c.buildLock.Lock()
	defer c.buildLock.Unlock()

	c.lock.RLock()
	stale := ticket < c.generation
	c.lock.RUnlock()
	if stale {
		log.Debug().Str("language", code).Msg("Skipping outdated language switch")
		return nil
	}

	tree, err := c.Build(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("language", code).Msg("Couldn't load language")
		return err
	}
	canonical, _ := CanonicalCode(code)

	c.lock.Lock()
	defer c.lock.Unlock()
	if ticket < c.generation {
		return nil
	}
	c.generation = ticket
	c.current = tree
	c.language = canonical
	log.Info().Str("language", canonical).Int("messages", len(tree.Flatten("."))).Msg("Language activated")
	return nil
}

// RegisterOverrides merges custom texts for a language. They are applied on
// top of every later build of that language, and right away if it is active.
func (c *Catalog) RegisterOverrides(ctx context.Context, code string, tree Tree) error {
	code, err := CanonicalCode(code)
	if err != nil {
		return err
	}
	c.lock.Lock()
	stored := Tree{}
	if previous, ok := c.overrides[code]; ok {
		stored = previous.Clone()
	}
	if err := Merge(stored, tree); err != nil {
		c.lock.Unlock()
		return err
	}
	c.overrides[code] = stored
	active := c.language == code
	c.lock.Unlock()

	if active {
		return c.Activate(ctx, code)
	}
	return nil
}

// Language returns the active language code, "" before the first activation
func (c *Catalog) Language() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.language
}

// Snapshot returns a copy of the active messages
func (c *Catalog) Snapshot() Tree {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.current.Clone()
}

// Text returns the message for a dotted key, or the key itself when the
// message is missing so the gap is visible in the UI
func (c *Catalog) Text(key string) string {
	c.lock.RLock()
	text, ok := c.current.Lookup(key)
	c.lock.RUnlock()
	if !ok {
		log.Debug().Str("key", key).Msg("Missing translation")
		return key
	}
	return text
}

// T returns the message with its placeholders filled in
func (c *Catalog) T(key string, values map[string]any) string {
	return Substitute(c.Text(key), values)
}
