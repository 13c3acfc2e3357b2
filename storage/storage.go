// Package storage is the object-store boundary. Issue photos are uploaded to
// a hosted bucket; this package never reads file bytes back, it only hands
// the resulting public URL to the issue record.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ObjectStore accepts uploaded bytes and returns a publicly resolvable URL.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// ObjectPath builds the bucket path for an issue image:
// {ownerId}/{issueId}_{index}.{ext}.
func ObjectPath(ownerID, issueID string, index int, filename string) string {
	ext := "bin"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = filename[i+1:]
	}
	return fmt.Sprintf("%s/%s_%d.%s", ownerID, issueID, index, ext)
}

// BucketClient talks to a Supabase-style storage REST API.
type BucketClient struct {
	baseURL string
	bucket  string
	key     string
	http    *http.Client
}

// NewBucketClient builds a client for one bucket.
func NewBucketClient(baseURL, bucket, key string) *BucketClient {
	return &BucketClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		key:     key,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores data at path inside the bucket and returns the public URL.
func (c *BucketClient) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path), nil
}
