package settings_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/ralim/studybook/settings"
	"github.com/rs/zerolog/log"
)

func TestNewSettings(t *testing.T) {
	//Test that settings will init

	tempFile, err := os.CreateTemp("", "settings_test_*")
	if err != nil {
		t.Error(err)
	}
	defer os.Remove(tempFile.Name())
	newSettings := settings.NewSettings(tempFile.Name())
	if newSettings.FallbackLanguage != "en" {
		t.Error("Should setup fallback language as default")
	}
	if newSettings.TotalPages != 10 {
		t.Error("Should setup total pages as default")
	}
	saved, err := os.ReadFile(tempFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(saved), "fallbackLanguage") {
		t.Error("Should write defaults back to the file")
	}
}

func TestLoadFrom(t *testing.T) {
	//Test that settings will init
	tempFile, err := os.CreateTemp("", "settings_test_*")
	if err != nil {
		t.Error(err)
	}
	defer os.Remove(tempFile.Name())
	newSettings := settings.NewSettings(tempFile.Name())
	demoStr := "{\"languagesFolder\":\"testessetsteset\"}"
	reader := strings.NewReader(demoStr)
	if err := newSettings.LoadFrom(reader); err != nil {
		t.Error(err)
	}
	if newSettings.LanguagesFolder != "testessetsteset" {
		t.Error("Should setup languages folder as demo overwrite")
	}
	if newSettings.DefaultLanguage == "" {
		t.Error("Should keep fields missing in the JSON")
	}
	if err := newSettings.LoadFrom(strings.NewReader("{nope")); err == nil {
		t.Error("Should report broken JSON")
	}
}

func TestLoadEnvironment(t *testing.T) {
	tempFile, err := os.CreateTemp("", "settings_test_*")
	if err != nil {
		t.Error(err)
	}
	defer os.Remove(tempFile.Name())
	t.Setenv("STUDYBOOK_LANGUAGE", "de")
	t.Setenv("STUDYBOOK_TOTAL_PAGES", "3")
	newSettings := settings.NewSettings(tempFile.Name())
	if newSettings.DefaultLanguage != "de" {
		t.Error("Environment should override the language")
	}
	if newSettings.TotalPages != 3 {
		t.Error("Environment should override the page count")
	}
	saved, _ := os.ReadFile(tempFile.Name())
	if strings.Contains(string(saved), "\"de\"") {
		t.Error("Environment values should not be saved")
	}
}

func TestSetupLogging(t *testing.T) {
	tempFile, err := os.CreateTemp("", "settings_test_*")
	if err != nil {
		t.Error(err)
	}
	defer os.Remove(tempFile.Name())
	newSettings := settings.NewSettings(tempFile.Name())
	newSettings.LogLevel = "warn"
	buf := &bytes.Buffer{}
	newSettings.SetupLogging(buf)
	defer newSettings.SetupLogging(os.Stderr)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("Should filter below the configured level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Should write to the configured writer")
	}
}
