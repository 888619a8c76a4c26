package i18n

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxDepth limits the nesting of message trees. Trees come from files
// outside of our control, so every recursive walk checks it.
const MaxDepth = 32

var (
	ErrTooDeep  = errors.New("message tree nested too deep")
	ErrBadValue = errors.New("message tree value must be a string or a table")
)

// Tree is a message catalogue: each key holds either a text or a nested tree
type Tree map[string]Entry

// Entry is a leaf when Sub is nil
type Entry struct {
	Text string
	Sub  Tree
}

func Leaf(text string) Entry { return Entry{Text: text} }

func Branch(sub Tree) Entry {
	if sub == nil {
		sub = Tree{}
	}
	return Entry{Sub: sub}
}

func (e Entry) IsBranch() bool { return e.Sub != nil }

// FromMap converts decoded TOML/YAML/JSON data into a tree, rejecting
// anything that is not a string or a nested table
func FromMap(data map[string]any) (Tree, error) {
	return fromMap(data, 0)
}

func fromMap(data map[string]any, depth int) (Tree, error) {
	if depth >= MaxDepth {
		return nil, ErrTooDeep
	}
	tree := make(Tree, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			tree[key] = Leaf(v)
		case map[string]any:
			sub, err := fromMap(v, depth+1)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", key, err)
			}
			tree[key] = Branch(sub)
		default:
			return nil, fmt.Errorf("%s: %w (got %T)", key, ErrBadValue, value)
		}
	}
	return tree, nil
}

// Merge copies src into dst. Nested trees are merged recursively, texts in
// src replace the texts in dst and keys only present in dst are kept.
func Merge(dst, src Tree) error {
	return merge(dst, src, 0)
}

func merge(dst, src Tree, depth int) error {
	if depth >= MaxDepth {
		return ErrTooDeep
	}
	for key, value := range src {
		if !value.IsBranch() {
			dst[key] = value
			continue
		}
		target, ok := dst[key]
		if !ok || !target.IsBranch() {
			target = Branch(Tree{})
			dst[key] = target
		}
		if err := merge(target.Sub, value.Sub, depth+1); err != nil {
			return fmt.Errorf("%s.%w", key, err)
		}
	}
	return nil
}

// Clone returns a deep copy
func (t Tree) Clone() Tree {
	out := Tree{}
	// a tree that cannot be cloned would already have failed to merge
	_ = merge(out, t, 0)
	return out
}

// Lookup resolves a dotted key like "BookContentPage.Button.Next"
func (t Tree) Lookup(key string) (string, bool) {
	current := t
	parts := strings.Split(key, ".")
	for i, part := range parts {
		entry, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			if entry.IsBranch() {
				return "", false
			}
			return entry.Text, true
		}
		if !entry.IsBranch() {
			return "", false
		}
		current = entry.Sub
	}
	return "", false
}

// Flatten returns every text keyed by its full path joined with sep
func (t Tree) Flatten(sep string) map[string]string {
	out := map[string]string{}
	t.flatten("", sep, out, 0)
	return out
}

func (t Tree) flatten(prefix, sep string, out map[string]string, depth int) {
	if depth >= MaxDepth {
		return
	}
	for key, entry := range t {
		full := key
		if prefix != "" {
			full = prefix + sep + key
		}
		if entry.IsBranch() {
			entry.Sub.flatten(full, sep, out, depth+1)
		} else {
			out[full] = entry.Text
		}
	}
}

// Keys returns the sorted dotted keys of every text
func (t Tree) Keys() []string {
	flat := t.Flatten(".")
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
