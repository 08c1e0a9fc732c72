package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// ObjectClient is the subset of the S3 client the store needs.
type ObjectClient interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3Store keeps images in a bucket under prefix. When publicURL is set, returned
// URLs use it (a CDN or website endpoint); otherwise the upload location is used.
type S3Store struct {
	client    ObjectClient
	prefix    string
	publicURL string
}

func NewS3Store(client ObjectClient, prefix, publicURL string) *S3Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{client: client, prefix: prefix, publicURL: strings.TrimSuffix(publicURL, "/")}
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := s.prefix + objectName(filename)
	location, err := s.client.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", err
	}
	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	return location, nil
}

func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key := s.keyFromURL(rawURL)
	if key == "" {
		return nil
	}
	return s.client.Delete(ctx, key)
}

// keyFromURL recovers the object key. Only keys under the store prefix are returned.
func (s *S3Store) keyFromURL(rawURL string) string {
	var key string
	if s.publicURL != "" && strings.HasPrefix(rawURL, s.publicURL+"/") {
		key = strings.TrimPrefix(rawURL, s.publicURL+"/")
	} else {
		u, err := url.Parse(rawURL)
		if err != nil {
			return ""
		}
		key = strings.TrimPrefix(u.Path, "/")
		if i := strings.LastIndex(key, s.prefix); s.prefix != "" && i > 0 {
			// path-style URLs carry the bucket as the first segment
			key = key[i:]
		}
	}
	if s.prefix != "" && !strings.HasPrefix(key, s.prefix) {
		return ""
	}
	return key
}
