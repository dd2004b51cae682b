package model

import (
	"fmt"
	"strings"
)

// ArtifactMarker is the legacy text convention for smuggling a diagnostic
// artifact path through an error message. New code should read the
// ArtifactPath field via errors.As; the marker is still emitted and parsed
// so older captures stay recognizable.
const ArtifactMarker = "screenshot="

// ConfigError is a fatal pre-flight configuration problem. Nothing is
// fetched once one of these is raised.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// FetchError is a retryable failure raised while navigating or parsing a
// marketplace page. ArtifactPath points at a page capture when one was
// written.
type FetchError struct {
	URL          string
	ArtifactPath string
	Err          error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	if e.ArtifactPath != "" {
		msg += "; " + ArtifactMarker + e.ArtifactPath
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError is a retryable failure raised while deriving fields from
// an already-fetched page. It wraps its cause and carries through any
// artifact path the fetch layer produced.
type ExtractionError struct {
	URL          string
	ArtifactPath string
	Err          error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("detail parsing failed for %s: %v", e.URL, e.Err)
	if e.ArtifactPath != "" {
		msg += "; " + ArtifactMarker + e.ArtifactPath
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ArtifactPathFromMessage recovers an artifact path from the legacy message
// marker. Returns "" when no marker is present.
func ArtifactPathFromMessage(message string) string {
	idx := strings.Index(message, ArtifactMarker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(message[idx+len(ArtifactMarker):])
}
