package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles reading and instantiating story packs from the read-only
// data layer. Directories are searched sequentially, so a campaign
// directory can shadow the built-in packs.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a Loader with the given directory fallback
// hierarchy.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{dataDirs: dataDirs}
}

// LoadPack reads, decodes, normalizes, and validates one story pack by
// name (packs/<name>.yaml in the first directory that has it).
func (l *Loader) LoadPack(name string) (*Pack, error) {
	var p Pack
	ref := filepath.Join("packs", fmt.Sprintf("%s.yaml", name))
	if err := l.load(ref, &p); err != nil {
		return nil, err
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("story pack %q is invalid: %w", name, err)
	}
	return &p, nil
}

// ListPacks returns the pack names available across all data directories,
// deduplicated and sorted.
func (l *Loader) ListPacks() []string {
	seen := make(map[string]bool)
	for _, dir := range l.dataDirs {
		entries, err := os.ReadDir(filepath.Join(dir, "packs"))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
				continue
			}
			seen[strings.TrimSuffix(name, ".yaml")] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Loader) load(ref string, target any) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			decoder := yaml.NewDecoder(f)
			if err := decoder.Decode(target); err != nil {
				return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
			}
			return nil
		}
	}
	return fmt.Errorf("could not find or open reference %s in any available data directory", ref)
}
