package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"stylemark/internal/annotation"
)

// Client uploads annotated photos over HTTP.
type Client struct {
	http *http.Client
	log  zerolog.Logger

	// OnProgress, when set, receives the number of body bytes sent so
	// far as the upload streams.
	OnProgress func(sent int64)
}

// NewClient creates an upload client with the given request timeout.
func NewClient(log zerolog.Logger, timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "upload").Logger(),
	}
}

// UploadPhoto sends the annotation set and its flattened thumbnail to
// the target as a multipart request. The annotations travel as a JSON
// part named "annotations"; the thumbnail file as a PNG part named
// "thumbnail".
func (c *Client) UploadPhoto(ctx context.Context, target Target, set *annotation.Set) error {
	if set.Thumbnail == "" {
		return fmt.Errorf("upload: set has no thumbnail")
	}
	thumb, err := os.Open(set.Thumbnail)
	if err != nil {
		return fmt.Errorf("upload: open thumbnail: %w", err)
	}
	defer thumb.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	meta, err := mw.CreateFormField("annotations")
	if err != nil {
		return fmt.Errorf("upload: build request: %w", err)
	}
	if err := json.NewEncoder(meta).Encode(set); err != nil {
		return fmt.Errorf("upload: encode annotations: %w", err)
	}

	part, err := mw.CreateFormFile("thumbnail", filepath.Base(set.Thumbnail))
	if err != nil {
		return fmt.Errorf("upload: build request: %w", err)
	}
	if _, err := io.Copy(part, thumb); err != nil {
		return fmt.Errorf("upload: read thumbnail: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("upload: build request: %w", err)
	}

	total := int64(body.Len())
	var reader io.Reader = &body
	if c.OnProgress != nil {
		reader = &progressReader{r: &body, report: c.OnProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.UploadURL(), reader)
	if err != nil {
		return fmt.Errorf("upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+target.Token)
	req.ContentLength = total

	c.log.Info().Str("style", target.StyleID).Int64("bytes", total).Msg("uploading annotated photo")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload: server returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	c.log.Info().Str("style", target.StyleID).Msg("upload complete")
	return nil
}

// progressReader reports cumulative bytes read to the callback.
type progressReader struct {
	r      io.Reader
	sent   int64
	report func(int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.sent)
	}
	return n, err
}
