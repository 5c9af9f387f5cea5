// Package fetcher retrieves source documents from the web or local disk
package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	resty "gopkg.in/resty.v1"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

type Document struct {
	Location string
	Body     []byte

	Hash         string
	ETag         string
	LastModified string

	// Set when the server reported the previously imported revision is still current
	NotModified bool
}

type Fetcher struct {
	client *resty.Client
}

type Option func(*resty.Client)

func WithRetry(count int, waitTime time.Duration, maxWaitTime time.Duration) Option {
	return func(client *resty.Client) {
		client.SetRetryCount(count)
		client.SetRetryWaitTime(waitTime)
		client.SetRetryMaxWaitTime(maxWaitTime)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(client *resty.Client) {
		client.SetTimeout(timeout)
	}
}

func NewFetcher(options ...Option) *Fetcher {
	client := resty.New()
	client.SetHeader("User-Agent", "curl/7.54.1")
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetRetryMaxWaitTime(20 * time.Second)
	client.SetTimeout(2 * time.Minute)
	client.AddRetryCondition(func(response *resty.Response) (bool, error) {
		if response == nil {
			return false, nil
		}

		return response.StatusCode() == http.StatusTooManyRequests || response.StatusCode() >= http.StatusInternalServerError, nil
	})

	for _, option := range options {
		option(client)
	}

	return &Fetcher{client: client}
}

// Client exposes the underlying HTTP client for other fetches sharing the same retry policy
func (f *Fetcher) Client() *resty.Client {
	return f.client
}

// Fetch downloads the document at location, a URL or a local path. When previous is set the request is made
// conditional on it and Document.NotModified is set if nothing changed.
func (f *Fetcher) Fetch(ctx context.Context, location string, previous *ctdf.DatasetVersion) (*Document, error) {
	if !datasets.IsURL(location) {
		body, err := os.ReadFile(location)
		if err != nil {
			return nil, err
		}

		return newDocument(location, body, "", ""), nil
	}

	request := f.client.R().SetContext(ctx)
	if previous != nil {
		if previous.ETag != "" {
			request.SetHeader("If-None-Match", previous.ETag)
		}
		if previous.LastModified != "" {
			request.SetHeader("If-Modified-Since", previous.LastModified)
		}
	}

	response, err := request.Get(location)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}

	if response.StatusCode() == http.StatusNotModified {
		return &Document{
			Location:     location,
			ETag:         response.Header().Get("ETag"),
			LastModified: response.Header().Get("Last-Modified"),
			NotModified:  true,
		}, nil
	}

	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %w %s", location, ErrUnexpectedStatus, response.Status())
	}

	return newDocument(location, response.Body(), response.Header().Get("ETag"), response.Header().Get("Last-Modified")), nil
}

func newDocument(location string, body []byte, etag string, lastModified string) *Document {
	hash := sha256.Sum256(body)

	return &Document{
		Location:     location,
		Body:         body,
		Hash:         hex.EncodeToString(hash[:]),
		ETag:         etag,
		LastModified: lastModified,
	}
}
