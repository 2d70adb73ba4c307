package site

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"siteship/internal/domain"
)

// Archive entry names, written in exactly this order
const (
	markupFile  = "index.html"
	stylingFile = "style.css"
	scriptFile  = "script.js"
	archiveFile = "site.zip"
)

// Packager turns extracted site files into a single zip archive inside a
// per-user scratch directory
type Packager struct {
	baseDir string
}

// NewPackager creates a packager rooted at baseDir
func NewPackager(baseDir string) *Packager {
	return &Packager{baseDir: baseDir}
}

// Package writes the three site files to the user's scratch directory and
// zips them. It returns the archive path and a cleanup function that removes
// the whole scratch directory; the caller must run cleanup once the archive
// has been consumed. On error the scratch directory is already removed and
// no cleanup is returned.
func (p *Packager) Package(files domain.SiteFiles, userID string) (string, func(), error) {
	scratchDir := filepath.Join(p.baseDir, userID)
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}

	cleanup := func() { os.RemoveAll(scratchDir) }

	entries := entryList(files)
	for _, e := range entries {
		if err := os.WriteFile(filepath.Join(scratchDir, e.name), []byte(e.content), 0o644); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("write %s: %w", e.name, err)
		}
	}

	archivePath := filepath.Join(scratchDir, archiveFile)
	if err := writeArchive(archivePath, entries); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write archive: %w", err)
	}

	return archivePath, cleanup, nil
}

type archiveEntry struct {
	name    string
	content string
}

func entryList(files domain.SiteFiles) []archiveEntry {
	return []archiveEntry{
		{markupFile, files.Markup},
		{stylingFile, files.Styling},
		{scriptFile, files.Script},
	}
}

func writeArchive(archivePath string, entries []archiveEntry) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			zw.Close()
			return err
		}
	}

	return zw.Close()
}
