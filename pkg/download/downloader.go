// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package download fetches deployment artifacts, typically installers
// referenced by download providers, into the user's downloads folder.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxRedirects bounds how many 301/302 hops a single download will follow
// before failing. A redirect cycle fails fast instead of exhausting the stack.
const maxRedirects = 10

// maxNameProbes bounds the `name-1`, `name-2`, ... collision probing.
const maxNameProbes = 1000

// DownloadError is returned when the server answers with a status other than
// 200 or a redirect.
type DownloadError struct {
	StatusCode int
	Message    string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed with status code %d: %s", e.StatusCode, e.Message)
}

// FileDownloader downloads URLs to local files.
type FileDownloader struct {
	client *http.Client
	// targetDir overrides the downloads folder resolution. Used by tests.
	targetDir string
}

// NewFileDownloader creates a downloader using the given HTTP client.
// Passing nil uses a default client.
func NewFileDownloader(client *http.Client) *FileDownloader {
	if client == nil {
		client = &http.Client{
			// Redirects are followed manually so each hop can be validated
			// and bounded.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	return &FileDownloader{
		client: client,
	}
}

// Download fetches the URL and streams the response body to a file in the
// user's downloads folder, falling back to the home directory when no
// downloads folder exists. The file name derives from the URL's base name;
// when the name is taken, `name-1`, `name-2`, ... is probed until an unused
// name is found. Returns the path of the written file.
func (d *FileDownloader) Download(ctx context.Context, fileUrl string) (string, error) {
	resp, err := d.fetch(ctx, fileUrl, 0)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	targetDir, err := d.resolveTargetDir()
	if err != nil {
		return "", err
	}

	fileName := filepath.Base(resp.Request.URL.Path)
	if fileName == "." || fileName == "/" {
		fileName = "download"
	}

	targetPath, err := unusedFileName(targetDir, fileName)
	if err != nil {
		return "", err
	}

	file, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		// Drop the partial file, the write error is what matters.
		os.Remove(targetPath)
		return "", fmt.Errorf("failed to write to file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(targetPath)
		return "", fmt.Errorf("failed to write to file: %w", err)
	}

	return targetPath, nil
}

// fetch issues the GET request, following 301/302 redirects up to
// maxRedirects hops.
func (d *FileDownloader) fetch(ctx context.Context, fileUrl string, hops int) (*http.Response, error) {
	if hops > maxRedirects {
		return nil, fmt.Errorf("download of '%s' exceeded %d redirects", fileUrl, maxRedirects)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for '%s': %w", fileUrl, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusMovedPermanently, http.StatusFound:
		location := resp.Header.Get("Location")
		resp.Body.Close()

		if location == "" {
			return nil, &DownloadError{
				StatusCode: resp.StatusCode,
				Message:    "redirect response carries no location header",
			}
		}

		next, err := resolveRedirect(fileUrl, location)
		if err != nil {
			return nil, err
		}

		return d.fetch(ctx, next, hops+1)
	default:
		resp.Body.Close()
		return nil, &DownloadError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}
}

func resolveRedirect(base string, location string) (string, error) {
	baseUrl, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing url '%s': %w", base, err)
	}

	redirectUrl, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing redirect location '%s': %w", location, err)
	}

	return baseUrl.ResolveReference(redirectUrl).String(), nil
}

func (d *FileDownloader) resolveTargetDir() (string, error) {
	if d.targetDir != "" {
		return d.targetDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	downloads := filepath.Join(home, "Downloads")
	if info, err := os.Stat(downloads); err == nil && info.IsDir() {
		return downloads, nil
	}

	return home, nil
}

// unusedFileName returns a path in dir based on fileName that does not refer
// to an existing file, inserting `-1`, `-2`, ... before the extension as
// needed.
func unusedFileName(dir string, fileName string) (string, error) {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)

	candidate := filepath.Join(dir, fileName)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}

		if i > maxNameProbes {
			return "", fmt.Errorf("no unused file name for '%s' in '%s' after %d attempts", fileName, dir, maxNameProbes)
		}

		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
	}
}
