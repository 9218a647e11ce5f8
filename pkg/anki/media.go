package anki

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Media is one resolved asset: raw bytes plus the MIME type and file
// extension inferred for it.
type Media struct {
	Data []byte
	MIME string
	Ext  string
}

var mimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
	"audio/mpeg": "mp3",
	"audio/mp3":  "mp3",
	"audio/wav":  "wav",
	"audio/x-wav": "wav",
	"audio/wave": "wav",
	"audio/ogg":  "ogg",
}

const fallbackExtension = "bin"

// Resolver turns a media reference, either a data URI or a remote URL, into
// raw bytes. Resolution failures are recoverable: callers treat them as "no
// media for this slot".
type Resolver struct {
	Client *http.Client
}

func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{Client: &http.Client{Timeout: timeout}}
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (Media, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}
	return r.fetch(ctx, ref)
}

// decodeDataURI handles data:[<mime>][;base64],<payload> with a base64 or
// percent-encoded payload.
func decodeDataURI(ref string) (Media, error) {
	header, payload, found := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !found {
		return Media{}, fmt.Errorf("%w: malformed data URI", ErrMediaUnavailable)
	}

	mimeType, _, _ := strings.Cut(header, ";")
	mimeType = strings.TrimSpace(mimeType)

	var data []byte
	var err error
	if strings.Contains(header, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var decoded string
		decoded, err = url.PathUnescape(payload)
		data = []byte(decoded)
	}
	if err != nil {
		return Media{}, fmt.Errorf("%w: decoding data URI: %v", ErrMediaUnavailable, err)
	}

	return Media{Data: data, MIME: mimeType, Ext: extensionFor(mimeType, "")}, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Media{}, fmt.Errorf("%w: building request for %q: %v", ErrMediaUnavailable, rawURL, err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return Media{}, fmt.Errorf("%w: fetching %q: %v", ErrMediaUnavailable, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Media{}, fmt.Errorf("%w: fetching %q: status %d", ErrMediaUnavailable, rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Media{}, fmt.Errorf("%w: reading %q: %v", ErrMediaUnavailable, rawURL, err)
	}

	mimeType, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	mimeType = strings.TrimSpace(mimeType)
	return Media{Data: data, MIME: mimeType, Ext: extensionFor(mimeType, rawURL)}, nil
}

// extensionFor picks the file extension from the MIME table, falling back
// to a trailing extension in the locator, then to "bin".
func extensionFor(mimeType, rawURL string) string {
	if ext, ok := mimeExtensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	if ext := extensionFromURL(rawURL); ext != "" {
		return ext
	}
	return fallbackExtension
}

func extensionFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.TrimPrefix(path.Ext(parsed.Path), ".")
	if len(ext) < 3 || len(ext) > 4 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return strings.ToLower(ext)
}
