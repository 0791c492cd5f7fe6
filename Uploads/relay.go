package Uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"FuelLog/xerrors"

	"github.com/disintegration/imaging"
)

var (
	remoteURL  = regexp.MustCompile(`(?i)^https?://`)
	anyHTTPURL = regexp.MustCompile(`(?i)https?://[^\s"'<>\\]+`)
)

// Relay uploads captured photos to the bucket endpoint and returns durable
// URLs usable in API payloads.
type Relay struct {
	Endpoint   string
	UploadPath string
	MaxEdge    int

	http *http.Client
}

func NewRelay(endpoint, uploadPath string, maxEdge int, timeout time.Duration) *Relay {
	return &Relay{
		Endpoint:   endpoint,
		UploadPath: uploadPath,
		MaxEdge:    maxEdge,
		http:       &http.Client{Timeout: timeout},
	}
}

// UploadImage sends one local image to the bucket and returns its URL.
// Already-remote references are returned unchanged, which makes repeated
// submission attempts after a partial failure safe to retry.
func (r *Relay) UploadImage(ctx context.Context, localImage string) (string, error) {
	if localImage == "" {
		return "", fmt.Errorf("%w: no image provided", xerrors.ErrUpload)
	}
	if remoteURL.MatchString(localImage) {
		return localImage, nil
	}

	content, name, err := r.prepare(localImage)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	if err := writer.WriteField("uploadPath", r.UploadPath); err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	if err := writer.WriteField("isMulti", "true"); err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("Error closing upload response body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	url, extractErr := extractURL(raw, ok)
	if extractErr != nil {
		if !ok {
			return "", fmt.Errorf("%w: %s", xerrors.ErrUpload, uploadMessage(raw, resp.Status))
		}
		return "", extractErr
	}
	return url, nil
}

// prepare reads the local file, downscaling camera captures so a field
// upload over mobile data stays small. Files that are not decodable images
// are sent untouched.
func (r *Relay) prepare(path string) ([]byte, string, error) {
	name := filepath.Base(path)

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, "", fmt.Errorf("%w: cannot read %s: %v", xerrors.ErrUpload, path, readErr)
		}
		return raw, name, nil
	}

	if r.MaxEdge > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > r.MaxEdge || bounds.Dy() > r.MaxEdge {
			img = imaging.Fit(img, r.MaxEdge, r.MaxEdge, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := encodeJPEG(&buf, img); err != nil {
		return nil, "", fmt.Errorf("%w: %v", xerrors.ErrUpload, err)
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".jpg" && ext != ".jpeg" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return buf.Bytes(), name, nil
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(85))
}

// extractURL parses the upload response permissively: a bare URL string, an
// object exposing url/Location/availableSizes.image, an array of either, and
// as a last resort any URL embedded in the raw text.
func extractURL(raw []byte, ok bool) (string, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if ok {
			if match := anyHTTPURL.Find(raw); match != nil {
				return string(match), nil
			}
		}
		return "", fmt.Errorf("%w: response was not JSON and contained no URL", xerrors.ErrUpload)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", xerrors.ErrUpload, uploadMessage(raw, "upload rejected"))
	}

	var candidates []interface{}
	switch v := decoded.(type) {
	case []interface{}:
		candidates = v
	case map[string]interface{}:
		if data, found := v["data"].([]interface{}); found {
			candidates = data
		} else {
			candidates = []interface{}{v}
		}
	default:
		candidates = []interface{}{decoded}
	}

	for _, candidate := range candidates {
		switch item := candidate.(type) {
		case string:
			if remoteURL.MatchString(item) {
				return item, nil
			}
		case map[string]interface{}:
			if sizes, found := item["availableSizes"].(map[string]interface{}); found {
				if u, found := sizes["image"].(string); found && u != "" {
					return u, nil
				}
			}
			if u, found := item["url"].(string); found && u != "" {
				return u, nil
			}
			if u, found := item["Location"].(string); found && u != "" {
				return u, nil
			}
		}
	}

	// Last resort: scan the flattened response for anything URL-shaped.
	if match := anyHTTPURL.Find(raw); match != nil {
		return string(match), nil
	}
	return "", fmt.Errorf("%w: response did not include a URL", xerrors.ErrUpload)
}

func uploadMessage(raw []byte, fallback string) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
