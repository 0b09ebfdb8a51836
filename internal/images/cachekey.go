// Package images localizes remote image references in Markdown: it finds
// them, downloads each distinct URL once into a content-addressed directory
// cache and rewrites the references to relative paths.
package images

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

const (
	keyLength    = 12
	defaultExt   = ".jpg"
	maxExtLength = 10
)

// CacheKey names the cache file for a URL: the first 12 hex digits of the MD5
// of the URL string plus the lowercase extension of its path. Missing or
// implausibly long extensions become ".jpg".
func CacheKey(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:keyLength] + extension(rawURL)
}

func extension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	ext := strings.ToLower(path.Ext(base))
	// ".bashrc" style names have no extension.
	if ext == strings.ToLower(base) {
		ext = ""
	}
	if ext == "" || len(ext) > maxExtLength {
		return defaultExt
	}
	return ext
}
