// Package estimator runs external key-detection programs.
package estimator

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	keyeval "github.com/jamesainslie/go-keyeval"
)

var (
	// ErrEstimatorFailed indicates the estimator could not be run or exited
	// with a non-zero status.
	ErrEstimatorFailed = errors.New("estimator: invocation failed")

	// ErrMalformedOutput indicates the estimator output has no key field.
	ErrMalformedOutput = errors.New("estimator: malformed output")
)

// Estimator estimates the key of an audio file.
type Estimator interface {
	Estimate(ctx context.Context, path string) (keyeval.Key, error)
}

// Func adapts a function to the Estimator interface.
type Func func(ctx context.Context, path string) (keyeval.Key, error)

// Estimate calls f(ctx, path).
func (f Func) Estimate(ctx context.Context, path string) (keyeval.Key, error) {
	return f(ctx, path)
}

// ParseOutput extracts the key from estimator output.
// The key label is the second tab-separated field of the first line.
func ParseOutput(out []byte) (keyeval.Key, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
		}
		return 0, fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}

	line := scanner.Text()
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: no key field in %q", ErrMalformedOutput, line)
	}

	return keyeval.ParseKey(strings.TrimSpace(fields[1]))
}
