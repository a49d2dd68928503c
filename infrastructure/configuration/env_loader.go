package configuration

import (
	"bufio"
	"os"
	"strings"
)

// EnvFile reports what one env file contributed.
type EnvFile struct {
	Path    string
	Applied []string
	// Shadowed keys were already present in the process environment.
	Shadowed []string
}

// LoadEnvFromFile reads KEY=VALUE lines from each existing file in order and
// sets the keys the process environment does not already define. A key set by
// an earlier file shadows the same key in a later one. Missing files are skipped
// and left out of the result.
func LoadEnvFromFile(paths ...string) []EnvFile {
	var loaded []EnvFile
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		file := EnvFile{Path: p}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			key, val, ok := parseEnvLine(scanner.Text())
			if !ok {
				continue
			}
			if _, exists := os.LookupEnv(key); exists {
				file.Shadowed = append(file.Shadowed, key)
				continue
			}
			if err := os.Setenv(key, val); err == nil {
				file.Applied = append(file.Applied, key)
			}
		}
		_ = f.Close()
		loaded = append(loaded, file)
	}
	return loaded
}

// parseEnvLine accepts `KEY=VALUE`, `export KEY=VALUE` and quoted values.
// Unquoted values lose a trailing ` # comment`.
func parseEnvLine(raw string) (key, val string, ok bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, val, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	val = strings.TrimSpace(val)
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		return key, val[1 : n-1], true
	}
	if i := strings.Index(val, " #"); i >= 0 {
		val = strings.TrimSpace(val[:i])
	}
	return key, val, true
}
