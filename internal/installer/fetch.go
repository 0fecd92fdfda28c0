package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/archive"
	"github.com/neosplus/neosplus-launcher/internal/downloader"
	"github.com/neosplus/neosplus-launcher/internal/github"
	"github.com/neosplus/neosplus-launcher/internal/logging"
)

const dllName = "NeosPlus.dll"

// ReleaseFetcher installs NeosPlus from a GitHub release.
type ReleaseFetcher struct {
	// Repo is "owner/name"; defaults to github.DefaultRepo.
	Repo string
	// Tag pins a release; empty picks the newest stable one.
	Tag string
	// Token authorizes GitHub API requests.
	Token string
	// Progress receives the download progress bar. Nil disables it.
	Progress io.Writer

	lookup func(ctx context.Context, repo, tag, token string) (*github.Package, error)
}

// FetchAndInstall resolves the release, downloads its package and unpacks it
// into targetDir. Every failure is reported through the result message.
func (f *ReleaseFetcher) FetchAndInstall(ctx context.Context, installPath, targetDir string) DownloadResult {
	lookup := f.lookup
	if lookup == nil {
		lookup = github.FetchRelease
	}

	pkg, err := lookup(ctx, f.Repo, f.Tag, f.Token)
	if err != nil {
		return DownloadResult{Message: fmt.Sprintf("Failed to find a NeosPlus release: %v", err)}
	}
	logging.Debugf("Verbose: release version=%s file=%s api=%t install=%q\n", pkg.Version, pkg.Filename, pkg.IsAPI, installPath)

	tmpDir, err := os.MkdirTemp("", "neosplus-download-*")
	if err != nil {
		return DownloadResult{Message: fmt.Sprintf("Failed to download NeosPlus: creating temp dir: %v", err)}
	}
	defer os.RemoveAll(tmpDir)

	filename := filepath.Base(pkg.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		filename = "package"
	}
	downloadPath := filepath.Join(tmpDir, filename)
	err = downloader.DownloadToFile(ctx, pkg.URL, downloadPath, downloader.Options{
		Token:       f.Token,
		IsGitHubAPI: pkg.IsAPI,
		Progress:    f.Progress,
		Label:       "NeosPlus " + pkg.Version,
	})
	if err != nil {
		return DownloadResult{Message: fmt.Sprintf("Failed to download NeosPlus: %v", err)}
	}

	if err := unpack(downloadPath, targetDir); err != nil {
		return DownloadResult{Message: fmt.Sprintf("Failed to extract NeosPlus: %v", err)}
	}

	if _, err := os.Stat(filepath.Join(targetDir, dllName)); err != nil {
		return DownloadResult{Message: fmt.Sprintf("Failed to extract NeosPlus: %s missing from package %s", dllName, pkg.Filename)}
	}

	return DownloadResult{
		Success: true,
		Message: fmt.Sprintf("NeosPlus %s installed to %s", pkg.Version, targetDir),
	}
}

func unpack(downloadPath, targetDir string) error {
	switch strings.ToLower(filepath.Ext(downloadPath)) {
	case ".zip":
		n, err := archive.ExtractZip(downloadPath, targetDir)
		if err != nil {
			return err
		}
		logging.Debugf("Verbose: extracted files=%d target=%q\n", n, targetDir)
		return nil
	case ".dll":
		return downloader.CopyFile(downloadPath, filepath.Join(targetDir, dllName))
	default:
		return fmt.Errorf("unsupported package type %q", filepath.Base(downloadPath))
	}
}
