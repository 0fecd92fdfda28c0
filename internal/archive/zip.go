package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/logging"
)

// ExtractZip unpacks the archive at zipPath into destDir and returns the
// number of files written. When every entry sits under one top-level folder
// that folder is stripped, so both "NeosPlus.dll" and "NeosPlus/NeosPlus.dll"
// layouts land directly in destDir. Entries escaping destDir are skipped.
func ExtractZip(zipPath, destDir string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && r != nil) {
		return 0, err
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, err
	}

	prefix := commonRoot(r.File)
	cleanDest := filepath.Clean(destDir)
	written := 0

	for _, f := range r.File {
		name := strings.TrimPrefix(entryName(f), prefix)
		if name == "" || name == "/" {
			continue
		}

		destPath := filepath.Join(cleanDest, filepath.FromSlash(name))
		cleanPath := filepath.Clean(destPath)
		if cleanPath == cleanDest || !strings.HasPrefix(cleanPath, cleanDest+string(os.PathSeparator)) {
			logging.Debugf("Verbose: skipping archive entry outside target entry=%q\n", f.Name)
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(cleanPath, 0o755); err != nil {
				return written, err
			}
			continue
		}

		if err := extractFile(f, cleanPath); err != nil {
			return written, fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		written++
	}

	return written, nil
}

func extractFile(f *zip.File, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, rc)
	closeErr := out.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// commonRoot returns "dir/" when every entry lives under the same top-level
// directory, and "" otherwise.
func commonRoot(files []*zip.File) string {
	root := ""
	for _, f := range files {
		first, _, nested := strings.Cut(entryName(f), "/")
		if !nested && !f.FileInfo().IsDir() {
			return ""
		}
		if root == "" {
			root = first
		} else if root != first {
			return ""
		}
	}
	if root == "" || root == "." || root == ".." {
		return ""
	}
	return path.Clean(root) + "/"
}

// entryName normalizes Windows-built archives to forward slashes.
func entryName(f *zip.File) string {
	return strings.TrimPrefix(strings.ReplaceAll(f.Name, `\`, "/"), "./")
}
