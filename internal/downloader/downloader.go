package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/neosplus/neosplus-launcher/internal/logging"
	"github.com/schollz/progressbar/v3"
)

const maxRetries = 3

// Options controls a single file download.
type Options struct {
	// Token authorizes GitHub API asset URLs.
	Token string
	// IsGitHubAPI marks URLs that need the octet-stream Accept header.
	IsGitHubAPI bool
	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
	// Label is shown next to the progress bar.
	Label string
}

var httpClient = http.DefaultClient

// retryDelay is the pause before attempt n (1-based retries).
var retryDelay = func(attempt int) time.Duration {
	return time.Duration(attempt) * 2 * time.Second
}

// DownloadToFile downloads url to destPath with retries. The body is written
// to destPath.tmp and renamed into place once complete.
func DownloadToFile(ctx context.Context, url, destPath string, opts Options) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			logging.Debugf("Verbose: retrying download %s attempt=%d/%d err=%v\n", filepath.Base(destPath), attempt+1, maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}

		lastErr = downloadOnce(ctx, url, destPath, opts)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func downloadOnce(ctx context.Context, url, destPath string, opts Options) error {
	logging.Debugf("Verbose: download start file=%s url=%s\n", filepath.Base(destPath), url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "neosplus-launcher")
	if opts.IsGitHubAPI && opts.Token != "" {
		req.Header.Set("Accept", "application/octet-stream")
		req.Header.Set("Authorization", "token "+opts.Token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading: HTTP %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(destPath), err)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	var dst io.Writer = f
	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = newBar(resp.ContentLength, opts)
		dst = io.MultiWriter(f, bar)
	}

	n, err := io.Copy(dst, resp.Body)
	closeErr := f.Close()
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing file: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing %s: %w", filepath.Base(destPath), err)
	}
	logging.Debugf("Verbose: download complete file=%s bytes=%d\n", filepath.Base(destPath), n)
	return nil
}

func newBar(size int64, opts Options) *progressbar.ProgressBar {
	if size <= 0 {
		size = -1
	}
	label := opts.Label
	if label == "" {
		label = "Downloading"
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(opts.Progress),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// CopyFile copies src to dst using an atomic write (write to dst.tmp, then rename).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	tmpPath := dst + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	_, err = io.Copy(out, in)
	closeErr := out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", dst, closeErr)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing %s: %w", dst, err)
	}
	return nil
}
