package anki

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testResolver() *Resolver {
	return NewResolver(2 * time.Second)
}

func TestResolveDataURIBase64(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	media, err := testResolver().Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if string(media.Data) != string(payload) {
		t.Fatalf("unexpected payload: %v", media.Data)
	}
	if media.Ext != "png" {
		t.Fatalf("expected png extension, got %q", media.Ext)
	}
	if media.MIME != "image/png" {
		t.Fatalf("expected image/png, got %q", media.MIME)
	}
}

func TestResolveDataURIPercentEncoded(t *testing.T) {
	media, err := testResolver().Resolve(context.Background(), "data:text/plain,hello%20world")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if string(media.Data) != "hello world" {
		t.Fatalf("unexpected payload: %q", media.Data)
	}
	if media.Ext != fallbackExtension {
		t.Fatalf("expected fallback extension for text/plain, got %q", media.Ext)
	}
}

func TestResolveDataURIErrors(t *testing.T) {
	cases := []string{
		"data:image/png;base64",          // no comma
		"data:image/png;base64,!!!not64", // bad payload
	}
	for _, ref := range cases {
		_, err := testResolver().Resolve(context.Background(), ref)
		if !errors.Is(err, ErrMediaUnavailable) {
			t.Fatalf("Resolve(%q): expected ErrMediaUnavailable, got %v", ref, err)
		}
	}
}

func TestResolveRemoteURL(t *testing.T) {
	payload := []byte("audio-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(payload)
	}))
	defer server.Close()

	media, err := testResolver().Resolve(context.Background(), server.URL+"/word")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if string(media.Data) != string(payload) {
		t.Fatalf("unexpected payload: %q", media.Data)
	}
	if media.Ext != "mp3" {
		t.Fatalf("expected mp3 extension, got %q", media.Ext)
	}
}

func TestResolveRemoteURLExtensionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/unknown")
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	media, err := testResolver().Resolve(context.Background(), server.URL+"/sounds/word.ogg")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if media.Ext != "ogg" {
		t.Fatalf("expected extension from URL path, got %q", media.Ext)
	}

	media, err = testResolver().Resolve(context.Background(), server.URL+"/no-extension")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if media.Ext != fallbackExtension {
		t.Fatalf("expected fallback extension, got %q", media.Ext)
	}
}

func TestResolveRemoteURLFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testResolver().Resolve(context.Background(), server.URL+"/missing.png")
	if !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected ErrMediaUnavailable for 404, got %v", err)
	}

	_, err = testResolver().Resolve(context.Background(), "http://127.0.0.1:1/unreachable")
	if !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected ErrMediaUnavailable for connection failure, got %v", err)
	}
}

func TestExtensionFor(t *testing.T) {
	cases := []struct {
		mime string
		url  string
		want string
	}{
		{mime: "image/jpeg", want: "jpg"},
		{mime: "IMAGE/PNG", want: "png"},
		{mime: "image/webp", want: "webp"},
		{mime: "image/gif", want: "gif"},
		{mime: "audio/wav", want: "wav"},
		{mime: "audio/ogg", want: "ogg"},
		{mime: "", url: "https://example.com/a/b/card.JPG", want: "jpg"},
		{mime: "", url: "https://example.com/a/b/card.toolong", want: "bin"},
		{mime: "", url: "", want: "bin"},
		{mime: "application/pdf", url: "", want: "bin"},
	}

	for _, tc := range cases {
		if got := extensionFor(tc.mime, tc.url); got != tc.want {
			t.Fatalf("extensionFor(%q, %q) = %q, want %q", tc.mime, tc.url, got, tc.want)
		}
	}
}
