//go:build !cgo || !chafa

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReportsUnavailableLibrary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "chafa-go version:")
	assert.Contains(t, stdout.String(), "library unavailable")
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run([]string{"-mode", "png"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "pixel mode")

	stderr.Reset()
	assert.Equal(t, exitUsage, run([]string{"-no-such-flag"}, &stdout, &stderr))
}
