package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ralim/studybook/utilities"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed lang/*.toml
var builtinFS embed.FS

var ErrUnknownLanguage = errors.New("unknown language")

// Source provides the message tree of a language
type Source interface {
	Load(ctx context.Context, code string) (Tree, error)
}

// CanonicalCode normalises a language code, "DE-de" -> "de-DE"
func CanonicalCode(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w %q - %v", ErrUnknownLanguage, code, err)
	}
	return tag.String(), nil
}

// Decode parses a catalogue file according to its extension (.toml, .yaml,
// .yml or .json, each optionally followed by .zst)
func Decode(name string, data []byte) (Tree, error) {
	raw := map[string]any{}
	var err error
	switch utilities.BaseExt(name) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported catalogue format %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("cant parse %s - %w", name, err)
	}
	tree, err := FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid catalogue %s - %w", name, err)
	}
	return tree, nil
}

var extensions = []string{".toml", ".yaml", ".yml", ".json"}

// candidates lists the file names that may hold a language
func candidates(code string) []string {
	names := []string{}
	for _, ext := range extensions {
		names = append(names, code+ext, code+ext+".zst")
	}
	return names
}

// EmbeddedSource serves the catalogues compiled into the binary
type EmbeddedSource struct {
	FS fs.FS
}

func NewEmbeddedSource() *EmbeddedSource {
	sub, err := fs.Sub(builtinFS, "lang")
	if err != nil {
		panic(err)
	}
	return &EmbeddedSource{FS: sub}
}

func (s *EmbeddedSource) Load(ctx context.Context, code string) (Tree, error) {
	code, err := CanonicalCode(code)
	if err != nil {
		return nil, err
	}
	for _, name := range candidates(code) {
		data, err := fs.ReadFile(s.FS, name)
		if err != nil {
			continue
		}
		return Decode(name, data)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownLanguage, code)
}

// Languages lists the codes of all embedded catalogues
func (s *EmbeddedSource) Languages() []string {
	return codesIn(s.FS)
}

// codesIn lists the language codes of the catalogue files in a folder
func codesIn(fsys fs.FS) []string {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	codes := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isCatalogueFile(name) {
			continue
		}
		if utilities.IsCompressed(name) {
			name = strings.TrimSuffix(name, path.Ext(name))
		}
		code, err := CanonicalCode(strings.TrimSuffix(name, path.Ext(name)))
		if err != nil || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func isCatalogueFile(name string) bool {
	ext := utilities.BaseExt(name)
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// DirSource loads catalogues from a folder on disk, files are named after the
// language code, e.g. de.toml or fr.yaml.zst
type DirSource struct {
	Folder string
}

func (s *DirSource) Load(ctx context.Context, code string) (Tree, error) {
	code, err := CanonicalCode(code)
	if err != nil {
		return nil, err
	}
	for _, name := range candidates(code) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := filepath.Join(s.Folder, name)
		if !utilities.Exists(full) {
			continue
		}
		data, err := utilities.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("cant read catalogue - %w", err)
		}
		log.Debug().Str("path", full).Msg("Loading catalogue")
		return Decode(name, data)
	}
	return nil, fmt.Errorf("%w %q in %s", ErrUnknownLanguage, code, s.Folder)
}

// Languages lists the codes of the catalogues in the folder
func (s *DirSource) Languages() []string {
	return codesIn(os.DirFS(s.Folder))
}

// ChainSource asks each source in turn, the first one knowing the language wins
type ChainSource []Source

func (c ChainSource) Load(ctx context.Context, code string) (Tree, error) {
	var lastErr error = fmt.Errorf("%w %q", ErrUnknownLanguage, code)
	for _, source := range c {
		tree, err := source.Load(ctx, code)
		if err == nil {
			return tree, nil
		}
		if !errors.Is(err, ErrUnknownLanguage) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// MapSource serves trees held in memory
type MapSource map[string]Tree

func (m MapSource) Load(ctx context.Context, code string) (Tree, error) {
	if tree, ok := m[code]; ok {
		return tree.Clone(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownLanguage, code)
}
