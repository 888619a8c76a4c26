package utilities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ralim/studybook/utilities"
)

func TestExists(t *testing.T) {
	t.Parallel()
	tempFile, err := os.CreateTemp("", "TestExists-*")
	if err != nil {
		t.Error(err)
	}
	_, err = tempFile.WriteString("Test")
	if err != nil {
		t.Error(err)
	}
	tempFile.Close()

	exists := utilities.Exists(tempFile.Name())
	if !exists {
		t.Error("should work for known exising files")
	}
	exists = utilities.Exists("/")
	if !exists {
		t.Error("should work for known exising folder")
	}
	os.Remove(tempFile.Name())
	exists = utilities.Exists(tempFile.Name())
	if exists {
		t.Error("should work for known not-exising files")
	}
}

func TestReadFileCompressed(t *testing.T) {
	t.Parallel()
	folder := t.TempDir()
	plain := filepath.Join(folder, "en.toml")
	packed := filepath.Join(folder, "en.toml.zst")
	content := []byte("[StudyBook]\nTitle = \"Packed\"\n")

	if err := os.WriteFile(plain, content, 0644); err != nil {
		t.Fatal(err)
	}
	if err := utilities.WriteCompressedFile(packed, content); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, packed} {
		data, err := utilities.ReadFile(path)
		if err != nil {
			t.Error(err)
			continue
		}
		if string(data) != string(content) {
			t.Errorf("%s read back wrong content: %q", path, data)
		}
	}
	if _, err := utilities.ReadFile(filepath.Join(folder, "missing.zst")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestBaseExt(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"de.toml":     ".toml",
		"de.TOML.zst": ".toml",
		"de.yaml.zst": ".yaml",
		"de.json":     ".json",
		"de":          "",
	}
	for input, want := range cases {
		if got := utilities.BaseExt(input); got != want {
			t.Errorf("BaseExt(%q) = %q, want %q", input, got, want)
		}
	}
}
