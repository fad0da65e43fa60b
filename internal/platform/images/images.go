// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package images checks and removes stored adventure pictures.
//
// Picture URLs look like "https://host/images/<file>"; the matching thumbnail
// lives at "images/thumbs/<file>". Both are removed together.
package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	originalsDir  = "images/"
	thumbnailsDir = "images/thumbs/"
)

// Remover deletes the files behind a picture URL.
type Remover interface {
	RemoveImage(ctx context.Context, imageURL string) error
}

// ThumbnailURL rewrites a picture URL to its thumbnail.
func ThumbnailURL(imageURL string) string {
	if strings.Contains(imageURL, thumbnailsDir) {
		return imageURL
	}
	return strings.Replace(imageURL, originalsDir, thumbnailsDir, 1)
}

// IsPictureURL reports whether imageURL names an original picture. Thumbnails
// and URLs outside the images tree are refused.
func IsPictureURL(imageURL string) bool {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if !strings.Contains(parsed.Path, originalsDir) || strings.Contains(parsed.Path, thumbnailsDir) {
		return false
	}
	if strings.Contains(parsed.Path, "..") {
		return false
	}

	_, err = fileName(imageURL)
	return err == nil && !strings.HasSuffix(parsed.Path, "/")
}

// FileRemover deletes pictures from a local directory tree.
type FileRemover struct {
	root string
}

// NewFileRemover serves files stored under root, which maps to the "images/" URL segment.
func NewFileRemover(root string) *FileRemover {
	return &FileRemover{root: root}
}

// RemoveImage deletes the original and its thumbnail. Missing files are not errors.
func (remover *FileRemover) RemoveImage(ctx context.Context, imageURL string) error {
	name, err := fileName(imageURL)
	if err != nil {
		return err
	}

	var errs []error
	for _, target := range []string{
		filepath.Join(remover.root, name),
		filepath.Join(remover.root, "thumbs", name),
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// fileName extracts the base name from a picture URL and refuses traversal.
func fileName(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("images: invalid url %q: %w", imageURL, err)
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == ".." || name == "" {
		return "", fmt.Errorf("images: no file in url %q", imageURL)
	}
	return name, nil
}
