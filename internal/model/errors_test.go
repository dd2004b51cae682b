package model

import (
	"errors"
	"strings"
	"testing"
)

func TestFetchErrorMessageCarriesArtifact(t *testing.T) {
	err := &FetchError{
		URL:          "https://www.amazon.co.jp/dp/B0TEST",
		ArtifactPath: "out/screenshots/detail_error_B0TEST.html",
		Err:          errors.New("unexpected status: 503"),
	}

	msg := err.Error()
	if !strings.Contains(msg, "unexpected status: 503") {
		t.Errorf("message missing cause: %q", msg)
	}
	if !strings.Contains(msg, ArtifactMarker+"out/screenshots/detail_error_B0TEST.html") {
		t.Errorf("message missing artifact marker: %q", msg)
	}
}

func TestFetchErrorMessageWithoutArtifact(t *testing.T) {
	err := &FetchError{URL: "https://example.com", Err: errors.New("timeout")}
	if strings.Contains(err.Error(), ArtifactMarker) {
		t.Errorf("marker emitted without artifact: %q", err.Error())
	}
}

func TestExtractionErrorUnwrap(t *testing.T) {
	cause := errors.New("no recognizable listing content")
	err := &ExtractionError{URL: "https://example.com", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap does not reach the cause")
	}
}

func TestArtifactPathFromMessage(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"detail parsing failed; screenshot=out/detail_error_B0X.html", "out/detail_error_B0X.html"},
		{"screenshot=path.html", "path.html"},
		{"plain failure with no marker", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ArtifactPathFromMessage(tt.message); got != tt.want {
			t.Errorf("ArtifactPathFromMessage(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
