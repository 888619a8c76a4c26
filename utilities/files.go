package utilities

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Exists is true for files and folders that can be stat'ed
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads the whole file, transparently decompressing files ending in .zst
func ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if !IsCompressed(path) {
		return io.ReadAll(file)
	}
	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("cant open zstd stream %s - %w", path, err)
	}
	defer decoder.Close()
	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("cant decompress %s - %w", path, err)
	}
	return data, nil
}

// WriteCompressedFile writes data zstd compressed, used for shipping catalogues
func WriteCompressedFile(path string, data []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	encoder, err := zstd.NewWriter(file)
	if err != nil {
		file.Close()
		return err
	}
	if _, err := encoder.Write(data); err != nil {
		encoder.Close()
		file.Close()
		return err
	}
	if err := encoder.Close(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// BaseExt returns the extension ignoring a trailing .zst, "a.toml.zst" -> ".toml"
func BaseExt(path string) string {
	if IsCompressed(path) {
		path = path[:len(path)-len(filepath.Ext(path))]
	}
	return strings.ToLower(filepath.Ext(path))
}
