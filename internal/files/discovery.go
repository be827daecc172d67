package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"springcli/internal/config"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Table   string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	// If dir is already absolute, use it directly
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindCSVFiles finds all CSV files in the specified directory, sorted by name
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.findBySuffix(dir, ".csv")
}

// FindCleanedTables finds the *_cleaned.csv files of a directory, sorted by
// name. Table holds the name without the suffix, e.g. "Visits".
func (d *Discovery) FindCleanedTables(dir string) ([]FileInfo, error) {
	files, err := d.findBySuffix(dir, config.CleanedSuffix)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Table = files[i].Name[:len(files[i].Name)-len(config.CleanedSuffix)]
	}
	return files, nil
}

func (d *Discovery) findBySuffix(dir, suffix string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// MissingRawTables returns the catalog entries whose raw file is absent from dir
func (d *Discovery) MissingRawTables(dir string, catalog []config.TableSpec) []config.TableSpec {
	fullPath := d.resolve(dir)

	var missing []config.TableSpec
	for _, spec := range catalog {
		info, err := os.Stat(filepath.Join(fullPath, spec.File))
		if err != nil || info.IsDir() {
			missing = append(missing, spec)
		}
	}
	return missing
}

// UnexpectedRawFiles returns the CSV files of dir that no catalog entry names
func (d *Discovery) UnexpectedRawFiles(dir string, catalog []config.TableSpec) ([]FileInfo, error) {
	found, err := d.FindCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(catalog))
	for _, spec := range catalog {
		known[spec.File] = true
	}

	var extra []FileInfo
	for _, f := range found {
		if !known[f.Name] {
			extra = append(extra, f)
		}
	}
	return extra, nil
}
