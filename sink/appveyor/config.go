// Package appveyor implements the remote sink posting test result batches to an
// AppVeyor-compatible build worker API
package appveyor

import (
	"fmt"
	"net/url"
	"time"

	"github.com/c2h5oh/datasize"
)

// ClientConfig holds the HTTP-level options of the batch sender; the endpoint URL itself is
// part of the top-level configuration because its absence disables reporting entirely
type ClientConfig struct {
	Timeout     time.Duration     `yaml:"timeout"`     // whole-request timeout; 0 disables it and a hung send stalls shutdown
	MaxBodySize datasize.ByteSize `yaml:"maxBodySize"` // max serialized batch body before compression; 0 = unlimited
	Compress    bool              `yaml:"compress"`    // gzip request bodies
}

// VerifyConfig verifies the client options
func (cfg *ClientConfig) VerifyConfig() error {
	if cfg.Timeout < 0 {
		return fmt.Errorf(".timeout must not be negative: %s", cfg.Timeout)
	}
	return nil
}

// VerifyEndpointURL checks the ingestion endpoint URL given at the top level
func VerifyEndpointURL(apiURL string) error {
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL %q: %w", apiURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid endpoint URL %q: unsupported scheme %q", apiURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid endpoint URL %q: missing host", apiURL)
	}
	return nil
}
