package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Format of a raw export
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// extensions in lookup order
var extensions = []struct {
	ext    string
	format Format
}{
	{".csv", FormatCSV},
	{".xlsx", FormatXLSX},
}

// FileInfo describes a located export
type FileInfo struct {
	Path    string
	Name    string
	Format  Format
	Size    int64
	ModTime time.Time
}

// Discovery finds exports in a directory
type Discovery struct {
	dir string
}

// NewDiscovery creates a discovery rooted at dir
func NewDiscovery(dir string) *Discovery {
	return &Discovery{dir: dir}
}

// Dir is the searched directory
func (d *Discovery) Dir() string { return d.dir }

// Locate finds the export for a base name, CSV first
func (d *Discovery) Locate(base string) (FileInfo, bool) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return FileInfo{}, false
	}
	byExt := make(map[string]os.DirEntry)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) != base {
			continue
		}
		lower := strings.ToLower(ext)
		// an exact-case extension wins over another spelling
		if _, seen := byExt[lower]; !seen || ext == lower {
			byExt[lower] = e
		}
	}
	for _, x := range extensions {
		e, ok := byExt[x.ext]
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		return FileInfo{
			Path:    filepath.Join(d.dir, e.Name()),
			Name:    e.Name(),
			Format:  x.format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}, true
	}
	return FileInfo{}, false
}

// Entry is the inventory result for one table
type Entry struct {
	Table string
	Base  string
	File  FileInfo
	Found bool
}

// Inventory locates the export of every table, keyed table name to base
// name, sorted by table name
func (d *Discovery) Inventory(bases map[string]string) ([]Entry, error) {
	if _, err := os.Stat(d.dir); err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dir, err)
	}
	out := make([]Entry, 0, len(bases))
	for tableName, base := range bases {
		info, ok := d.Locate(base)
		out = append(out, Entry{Table: tableName, Base: base, File: info, Found: ok})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out, nil
}

// Missing returns the entries without a file
func Missing(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.Found {
			out = append(out, e)
		}
	}
	return out
}
