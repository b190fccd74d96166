package appveyor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/relex/gotils/logger"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
)

// batchPath is the build worker API route accepting a JSON array of test results
const batchPath = "api/tests/batch"

type client struct {
	logger       logger.Logger
	batchURL     string
	httpClient   *http.Client
	maxBodyBytes int
	compress     bool
}

// NewSender creates a BatchSender posting batches to <apiURL>/api/tests/batch
//
// apiURL must have been verified beforehand; a trailing slash is accepted because the
// APPVEYOR_API_URL environment variable traditionally carries one.
func NewSender(parentLogger logger.Logger, apiURL string, cfg ClientConfig) base.BatchSender {
	sinkLogger := parentLogger.
		WithField(defs.LabelComponent, "AppveyorSink").
		WithField(defs.LabelServer, apiURL)

	return &client{
		logger:       sinkLogger,
		batchURL:     strings.TrimSuffix(apiURL, "/") + "/" + batchPath,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		maxBodyBytes: int(cfg.MaxBodySize.Bytes()),
		compress:     cfg.Compress,
	}
}

// SendBatch posts one batch as a JSON array; any transport error or non-2xx response makes
// the whole batch fail as a unit
func (c *client) SendBatch(batch []base.TestResult) error {
	body, merr := json.Marshal(batch)
	if merr != nil {
		return fmt.Errorf("failed to serialize batch: %w", merr)
	}
	if c.maxBodyBytes > 0 && len(body) > c.maxBodyBytes {
		return fmt.Errorf("batch body of %d bytes exceeds the %d-byte limit", len(body), c.maxBodyBytes)
	}

	request, rerr := c.newBatchRequest(body)
	if rerr != nil {
		return rerr
	}

	response, serr := c.httpClient.Do(request)
	if serr != nil {
		return fmt.Errorf("failed to send batch: %w", serr)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("batch rejected by %s: %s", c.batchURL, response.Status)
	}
	c.logger.Debugf("sent batch of %d results, %d bytes", len(batch), len(body))
	return nil
}

func (c *client) newBatchRequest(body []byte) (*http.Request, error) {
	if !c.compress {
		request, err := http.NewRequest(http.MethodPost, c.batchURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build batch request: %w", err)
		}
		request.Header.Set("Content-Type", "application/json")
		return request, nil
	}

	compressed := &bytes.Buffer{}
	compressor := gzip.NewWriter(compressed)
	if _, err := compressor.Write(body); err != nil {
		return nil, fmt.Errorf("failed to compress batch: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress batch: %w", err)
	}

	request, err := http.NewRequest(http.MethodPost, c.batchURL, bytes.NewReader(compressed.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to build batch request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Content-Encoding", "gzip")
	return request, nil
}
