// Package upload sends annotated photos to a StyleMark server. The
// destination comes from a scanned QR target; all request state lives
// in explicit values, never in globals.
package upload

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrBadTarget reports an unparseable or incomplete upload target.
var ErrBadTarget = errors.New("upload: invalid target")

// Target identifies where an annotated photo is delivered. It is built
// from a scanned QR payload and passed explicitly through the upload
// path.
type Target struct {
	// BaseURL is the server root, e.g. https://styles.example.com.
	BaseURL string
	// StyleID selects the garment style file the photo belongs to.
	StyleID string
	// Token authorizes the upload as a bearer credential.
	Token string
}

// ParseTarget decodes a QR payload into a Target. Two payload shapes
// are accepted:
//
//	stylemark://upload?endpoint=https://host&style=S123&token=T
//	https://host/styles/S123/upload?token=T
func ParseTarget(payload string) (Target, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Target{}, fmt.Errorf("%w: empty payload", ErrBadTarget)
	}

	u, err := url.Parse(payload)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrBadTarget, err)
	}

	switch u.Scheme {
	case "stylemark":
		return parseAppTarget(u)
	case "https", "http":
		return parseWebTarget(u)
	default:
		return Target{}, fmt.Errorf("%w: unsupported scheme %q", ErrBadTarget, u.Scheme)
	}
}

func parseAppTarget(u *url.URL) (Target, error) {
	if u.Host != "upload" {
		return Target{}, fmt.Errorf("%w: unknown action %q", ErrBadTarget, u.Host)
	}
	q := u.Query()
	t := Target{
		BaseURL: strings.TrimSuffix(q.Get("endpoint"), "/"),
		StyleID: q.Get("style"),
		Token:   q.Get("token"),
	}
	return t, t.validate()
}

func parseWebTarget(u *url.URL) (Target, error) {
	// Expected path: /styles/{id}/upload
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "styles" || parts[2] != "upload" {
		return Target{}, fmt.Errorf("%w: unexpected path %q", ErrBadTarget, u.Path)
	}
	t := Target{
		BaseURL: u.Scheme + "://" + u.Host,
		StyleID: parts[1],
		Token:   u.Query().Get("token"),
	}
	return t, t.validate()
}

func (t Target) validate() error {
	if t.BaseURL == "" {
		return fmt.Errorf("%w: missing endpoint", ErrBadTarget)
	}
	if t.StyleID == "" {
		return fmt.Errorf("%w: missing style id", ErrBadTarget)
	}
	if t.Token == "" {
		return fmt.Errorf("%w: missing token", ErrBadTarget)
	}
	return nil
}

// UploadURL returns the full photo-upload endpoint for the target.
func (t Target) UploadURL() string {
	return fmt.Sprintf("%s/styles/%s/photos", t.BaseURL, t.StyleID)
}
