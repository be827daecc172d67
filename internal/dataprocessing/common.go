package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"springcli/internal/config"
	"springcli/internal/exporter"
	"springcli/internal/infrastructure"
	"springcli/internal/table"
)

// component carries what every stage processor needs
type component struct {
	paths    *config.Paths
	writer   *exporter.CSVWriter
	logger   *slog.Logger
	progress io.Writer
}

func newComponent(paths *config.Paths, logger *slog.Logger, name string) component {
	if logger == nil {
		logger = slog.Default()
	}
	return component{
		paths:    paths,
		writer:   exporter.NewCSVWriter(paths),
		logger:   infrastructure.WithComponent(logger, name),
		progress: os.Stdout,
	}
}

// SetProgress redirects the human-readable progress lines, nil silences them
func (c *component) SetProgress(w io.Writer) {
	c.progress = w
}

func (c *component) printf(format string, args ...any) {
	if c.progress != nil {
		fmt.Fprintf(c.progress, format, args...)
	}
}

// readCleaned loads the cleaned version of a catalog table
func (c *component) readCleaned(name string) (*table.Table, error) {
	return table.ReadFile(c.paths.CleanedTablePath(name), name)
}
