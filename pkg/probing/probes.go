package probing

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// File reads a file and returns its content.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// FileLines reads a file into lines.
func FileLines(path string) ([]string, error) {
	v, err := File(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(v, "\n"), nil
}

// KVLines parses key-value text like /proc/meminfo into a map.
// Lines without the separator are skipped.
func KVLines(text, sep string) map[string]string {
	kv := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, sep)
		if idx != -1 {
			key := strings.TrimSpace(line[:idx])
			val := strings.TrimSpace(line[idx+len(sep):])
			kv[key] = val
		}
	}
	return kv
}

// ParseInt64 parses a decimal integer, tolerating surrounding whitespace.
func ParseInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// LeadingInt64 parses the leading run of digits in s, e.g. "16384 kB" -> 16384.
func LeadingInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	return v, err == nil
}

// Exists checks if a path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
