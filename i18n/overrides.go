package i18n

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralim/studybook/utilities"
	"github.com/rs/zerolog/log"
)

// LoadOverrides registers every catalogue file found in folder as overrides
// for the language it is named after. A missing folder is not an error.
func LoadOverrides(ctx context.Context, catalog *Catalog, folder string) error {
	if folder == "" || !utilities.Exists(folder) {
		return nil
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("cant list custom languages - %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isCatalogueFile(name) {
			continue
		}
		code := name
		if utilities.IsCompressed(code) {
			code = strings.TrimSuffix(code, filepath.Ext(code))
		}
		code = strings.TrimSuffix(code, filepath.Ext(code))

		full := filepath.Join(folder, name)
		data, err := utilities.ReadFile(full)
		if err != nil {
			return fmt.Errorf("cant read custom language - %w", err)
		}
		tree, err := Decode(name, data)
		if err != nil {
			return err
		}
		if err := catalog.RegisterOverrides(ctx, code, tree); err != nil {
			return fmt.Errorf("cant register %s - %w", full, err)
		}
		log.Info().Str("path", full).Str("language", code).Msg("Loaded custom texts")
	}
	return nil
}
