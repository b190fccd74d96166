// Package filter provides exclusion of tests from reporting by glob patterns on test names,
// e.g. to keep known-noisy generated tests out of the build history
package filter

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Config for a test name Filter
type Config struct {
	ExcludePatterns []string `yaml:"excludePatterns"` // glob patterns; a test matching any of them is not reported
}

// VerifyConfig verifies all patterns compile
func (cfg *Config) VerifyConfig() error {
	for _, pattern := range cfg.ExcludePatterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf(".excludePatterns: invalid pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Filter decides whether a test result should be excluded from reporting
type Filter struct {
	patterns []glob.Glob
}

// NewFilter compiles the configured patterns into a Filter
func (cfg *Config) NewFilter() (*Filter, error) {
	patterns := make([]glob.Glob, 0, len(cfg.ExcludePatterns))
	for _, pattern := range cfg.ExcludePatterns {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		patterns = append(patterns, compiled)
	}
	return &Filter{patterns: patterns}, nil
}

// Exclude returns true if the given test name matches any exclusion pattern
func (f *Filter) Exclude(testName string) bool {
	for _, pattern := range f.patterns {
		if pattern.Match(testName) {
			return true
		}
	}
	return false
}
