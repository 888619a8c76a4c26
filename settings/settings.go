package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Settings struct {
	DefaultLanguage       string `json:"defaultLanguage"`       // Language shown on startup
	FallbackLanguage      string `json:"fallbackLanguage"`      // Master language, every message must exist in it
	LanguagesFolder       string `json:"languagesFolder"`       // Extra catalogues (<code>.toml/.yaml/.json, optionally .zst), checked before the built-in ones
	CustomLanguagesFolder string `json:"customLanguagesFolder"` // Per deployment overrides, layered on top of the language with the same code
	TotalPages            int    `json:"totalPages"`            // Number of pages in the study book
	StartFragment         string `json:"startFragment"`         // URL fragment opened on startup
	LogLevel              string `json:"logLevel"`              // zerolog level name
	// Private
	filePath string
}

// NewSettings creates settings with sane defaults
// And then loads any settings from the provided path (overwriting defaults)
func NewSettings(path string) *Settings {

	settings := &Settings{
		filePath:              path,
		DefaultLanguage:       "en",
		FallbackLanguage:      "en",
		LanguagesFolder:       "./languages",
		CustomLanguagesFolder: "./custom_languages",
		TotalPages:            10,
		StartFragment:         "/",
		LogLevel:              "info",
	}
	//Load the settings file if it exsts, which will override the defaults above if specified
	settings.Load()
	//Save to preserve if we have added anything to the file, and drop no-longer used settings for clarity
	settings.Save()
	//Environment wins over the file but is never written back
	settings.LoadEnvironment()
	return settings
}

func (s *Settings) Load() {
	//Load existing settings file if possible; if not load do nothing
	file, err := os.Open(s.filePath)
	if err != nil {
		return
	}
	defer file.Close()
	if err := s.LoadFrom(file); err != nil {
		fmt.Fprintln(os.Stderr, "Couldn't load settings", err)
	}
}

// LoadFrom reads JSON settings, fields missing in the JSON keep their value
func (s *Settings) LoadFrom(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, s)
}

func (s *Settings) Save() {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't save settings - %v", err)
		return
	}
	err = os.WriteFile(s.filePath, data, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't save settings - %v", err)
	}
}

// LoadEnvironment applies STUDYBOOK_* variables, reading an optional .env file first
func (s *Settings) LoadEnvironment() {
	// .env is optional, variables may come from the real environment
	_ = godotenv.Load()

	if v := os.Getenv("STUDYBOOK_LANGUAGE"); v != "" {
		s.DefaultLanguage = v
	}
	if v := os.Getenv("STUDYBOOK_LANGUAGES_FOLDER"); v != "" {
		s.LanguagesFolder = v
	}
	if v := os.Getenv("STUDYBOOK_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("STUDYBOOK_TOTAL_PAGES"); v != "" {
		if pages, err := strconv.Atoi(v); err == nil && pages > 0 {
			s.TotalPages = pages
		}
	}
}

// SetupLogging points the global logger at the writer
func (s *Settings) SetupLogging(writer io.Writer) {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	noColor := true
	if file, ok := writer.(*os.File); ok {
		noColor = !isatty.IsTerminal(file.Fd())
	}
	output := zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen, NoColor: noColor}
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}
