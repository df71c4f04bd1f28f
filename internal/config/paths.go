package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute application paths
type Paths struct {
	BaseDir    string
	RawDir     string
	AuxDir     string
	CleanDir   string
	PicklesDir string
	CSVDir     string
	WekaDir    string
	LogsDir    string
	SQLitePath string
}

// GetPaths resolves the configured paths against BaseDir, or the working
// directory when BaseDir is empty
func (c *Config) GetPaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	clean := resolve(c.Paths.CleanDir)
	return &Paths{
		BaseDir:    base,
		RawDir:     resolve(c.Paths.RawDir),
		AuxDir:     resolve(c.Paths.AuxDir),
		CleanDir:   clean,
		PicklesDir: filepath.Join(clean, "pickles"),
		CSVDir:     filepath.Join(clean, "csvs"),
		WekaDir:    resolve(c.Paths.WekaDir),
		LogsDir:    resolve(c.Paths.LogsDir),
		SQLitePath: resolve(c.Paths.SQLitePath),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// Input directories are never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.PicklesDir, p.CSVDir, p.WekaDir}
	if p.LogsDir != "" {
		directories = append(directories, p.LogsDir)
	}
	if p.SQLitePath != "" {
		directories = append(directories, filepath.Dir(p.SQLitePath))
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// RawFile returns the path of a raw export with the given base name and extension
func (p *Paths) RawFile(base, ext string) string {
	return filepath.Join(p.RawDir, base+ext)
}

// AuxFile returns the path of an auxiliary CSV
func (p *Paths) AuxFile(name string) string {
	return filepath.Join(p.AuxDir, name+".csv")
}

// ModelDir returns the directory holding one pipeline's model files
func (p *Paths) ModelDir(name string) string {
	return filepath.Join(p.WekaDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution() {
	slog.Default().Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("raw", p.RawDir),
			slog.String("auxiliary", p.AuxDir),
			slog.String("clean", p.CleanDir),
			slog.String("weka", p.WekaDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("sqlite", p.SQLitePath),
		))
}
