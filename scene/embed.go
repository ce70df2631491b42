package scene

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed samples/*
var SamplesFS embed.FS

// Dir is the on-disk directory checked before the embedded samples.
var Dir = "scenes"

// Load returns the named scene, preferring a copy under Dir.
func Load(name string) ([]byte, error) {
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return SamplesFS.ReadFile("samples/" + clean)
}

// Samples lists the embedded sample scene names.
func Samples() []string {
	entries, err := fs.ReadDir(SamplesFS, "samples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSceneFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func cleanScenePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "samples/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, filepath.ToSlash(Dir)+"/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".json"
	}
	return s
}

func diskScenePath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}

// IsSceneFile reports whether path has a scene document extension.
func IsSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
