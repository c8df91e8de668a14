package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func Load[T any](path string) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return zero, json.NewDecoder(f).Decode(&zero)
}

func Save[T any](path string, v T) error {
	if strings.Contains(filepath.Clean(path), string(os.PathSeparator)) {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}

// unsafeChars are characters illegal in Windows or UNIX filenames.
var unsafeChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}

// SafeFilename turns an arbitrary record identifier into a usable filename
// stem: illegal characters become underscores and the result is truncated to
// 50 runes.
func SafeFilename(s string) string {
	if s == "" {
		return "unknown"
	}
	for _, c := range unsafeChars {
		s = strings.ReplaceAll(s, c, "_")
	}
	if runes := []rune(s); len(runes) > 50 {
		s = string(runes[:50])
	}
	return s
}
