package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/semver"
)

// DefaultRepo hosts the NeosPlus releases.
const DefaultRepo = "Xlinka/NeosPlus"

// Release is the subset of GitHub's release API response we need.
type Release struct {
	TagName    string         `json:"tag_name"`
	Prerelease bool           `json:"prerelease"`
	Draft      bool           `json:"draft"`
	Assets     []ReleaseAsset `json:"assets"`
}

// ReleaseAsset represents a downloadable file attached to a GitHub release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	URL                string `json:"url"` // API URL for authenticated downloads
	Size               int64  `json:"size"`
}

// Package is a resolved mod package download.
type Package struct {
	Version  string
	Filename string
	URL      string
	Size     int64
	IsAPI    bool
}

const releasesPerPage = 25

var githubHTTPClient = http.DefaultClient

// PickPackageAsset selects the mod package from a release's assets. A .zip
// archive wins over a bare .dll; among several archives one whose name
// mentions NeosPlus is preferred. Returns nil when nothing usable exists.
func PickPackageAsset(assets []ReleaseAsset) *ReleaseAsset {
	var zips, dlls []*ReleaseAsset
	for i, asset := range assets {
		switch strings.ToLower(filepath.Ext(strings.TrimSpace(asset.Name))) {
		case ".zip":
			zips = append(zips, &assets[i])
		case ".dll":
			dlls = append(dlls, &assets[i])
		}
	}

	for _, group := range [][]*ReleaseAsset{zips, dlls} {
		for _, a := range group {
			if strings.Contains(strings.ToLower(a.Name), "neosplus") {
				return a
			}
		}
		if len(group) == 1 {
			return group[0]
		}
	}
	return nil
}

// FetchRelease resolves the package for tag, or for the newest stable
// release when tag is empty.
func FetchRelease(ctx context.Context, repo, tag, token string) (*Package, error) {
	if repo == "" {
		repo = DefaultRepo
	}
	tag = strings.TrimSpace(tag)

	if tag != "" {
		apiURL := fmt.Sprintf("https://api.github.com/repos/%s/releases/tags/%s", repo, url.PathEscape(tag))
		var rel Release
		if err := getJSON(ctx, apiURL, token, &rel); err != nil {
			return nil, fmt.Errorf("repo %s release %s: %w", repo, tag, err)
		}
		pkg := packageFor(rel, token)
		if pkg == nil {
			return nil, fmt.Errorf("repo %s release %s: no package asset", repo, tag)
		}
		return pkg, nil
	}

	apiURL := fmt.Sprintf("https://api.github.com/repos/%s/releases?per_page=%d", repo, releasesPerPage)
	var releases []Release
	if err := getJSON(ctx, apiURL, token, &releases); err != nil {
		return nil, fmt.Errorf("repo %s: %w", repo, err)
	}
	pkg, err := selectLatest(releases, token)
	if err != nil {
		return nil, fmt.Errorf("repo %s: %w", repo, err)
	}
	return pkg, nil
}

func getJSON(ctx context.Context, apiURL, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := githubHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func selectLatest(releases []Release, token string) (*Package, error) {
	var best *Package
	for _, rel := range releases {
		tag := strings.TrimSpace(rel.TagName)
		if tag == "" || rel.Draft || rel.Prerelease || semver.IsPrerelease(tag) {
			continue
		}
		if best != nil && semver.Compare(tag, best.Version) <= 0 {
			continue
		}
		if pkg := packageFor(rel, token); pkg != nil {
			best = pkg
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no stable release with a .zip or .dll asset found")
	}
	return best, nil
}

func packageFor(rel Release, token string) *Package {
	asset := PickPackageAsset(rel.Assets)
	if asset == nil {
		return nil
	}

	downloadURL := strings.TrimSpace(asset.BrowserDownloadURL)
	isAPI := false
	if token != "" && strings.TrimSpace(asset.URL) != "" {
		downloadURL = strings.TrimSpace(asset.URL)
		isAPI = true
	}
	if downloadURL == "" {
		return nil
	}
	return &Package{
		Version:  strings.TrimSpace(rel.TagName),
		Filename: strings.TrimSpace(asset.Name),
		URL:      downloadURL,
		Size:     asset.Size,
		IsAPI:    isAPI,
	}
}
