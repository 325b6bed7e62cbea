// Package uploader pushes image assets to the upload endpoint of the catalog
// backend. Single uploads retry on transient failures with exponential
// backoff; batch uploads fall back to sequential single uploads when the
// batch call fails or comes back short.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
)

// DefaultRetries is the number of retries after the first attempt of a single
// upload.
const DefaultRetries = 2

const maxBackoff = 5 * time.Second

// StagedFile is a file queued for upload. The token identifies the file
// through the whole submit pipeline, so selections like "this is the main
// image" survive partial upload failures.
type StagedFile struct {
	Token       string
	Name        string
	ContentType string
	Data        []byte
}

// Stage wraps raw file content with a fresh token.
func Stage(name, contentType string, data []byte) StagedFile {
	return StagedFile{
		Token:       uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}
}

// UploadResult is the per-file outcome of UploadMany, in submission order.
type UploadResult struct {
	Token string
	URL   string
	Err   error
}

// Config configures an Uploader. Zero values fall back to defaults; Sleep
// exists so tests can observe backoff without waiting it out.
type Config struct {
	BaseURL    string
	Session    catalog.Session
	Retries    int
	Logger     *zap.Logger
	Sleep      func(time.Duration)
	HTTPClient *http.Client
}

// Uploader talks to the upload endpoints.
type Uploader struct {
	http    *http.Client
	baseURL string
	session catalog.Session
	retries int
	sleep   func(time.Duration)
	logger  *zap.Logger
}

// New creates an Uploader from cfg.
func New(cfg Config) *Uploader {
	u := &Uploader{
		http:    cfg.HTTPClient,
		baseURL: cfg.BaseURL,
		session: cfg.Session,
		retries: cfg.Retries,
		sleep:   cfg.Sleep,
		logger:  cfg.Logger,
	}
	if u.http == nil {
		u.http = &http.Client{Timeout: 30 * time.Second}
	}
	if u.retries <= 0 {
		u.retries = DefaultRetries
	}
	if u.sleep == nil {
		u.sleep = time.Sleep
	}
	if u.logger == nil {
		u.logger = zap.NewNop()
	}
	return u
}

// backoffDelay is the wait before the nth retry (n starting at 1):
// 1000ms, 2000ms, 4000ms, then capped at 5000ms.
func backoffDelay(retry int) time.Duration {
	d := time.Second << (retry - 1)
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// UploadOne uploads a single file, retrying transient failures (network
// errors, 5xx responses, responses without a URL) up to retries times. A 4xx
// response fails immediately.
func (u *Uploader) UploadOne(ctx context.Context, file StagedFile) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= u.retries; attempt++ {
		if attempt > 0 {
			u.sleep(backoffDelay(attempt))
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		url, retryable, err := u.postSingle(ctx, file)
		if err == nil {
			return url, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		u.logger.Warn("image upload attempt failed",
			zap.String("file", file.Name),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return "", lastErr
}

// UploadMany uploads files via the batch endpoint, falling back to a full
// sequential resubmission through UploadOne when the batch call fails or
// returns fewer URLs than files. Per-file failures are reported in the
// results, never as a function error, so callers decide between "zero
// uploaded" and "partial".
func (u *Uploader) UploadMany(ctx context.Context, files []StagedFile) []UploadResult {
	results := make([]UploadResult, len(files))
	if len(files) == 0 {
		return results
	}

	urls, err := u.postBatch(ctx, files)
	if err == nil && len(urls) >= len(files) {
		for i := range files {
			results[i] = UploadResult{Token: files[i].Token, URL: urls[i]}
		}
		return results
	}
	if err != nil {
		u.logger.Warn("batch upload failed, falling back to single uploads", zap.Error(err))
	} else {
		u.logger.Warn("batch upload returned fewer URLs than files, falling back to single uploads",
			zap.Int("submitted", len(files)),
			zap.Int("returned", len(urls)))
	}

	// Full resubmission: every file goes through UploadOne again,
	// sequentially and in input order.
	for i, file := range files {
		url, err := u.UploadOne(ctx, file)
		results[i] = UploadResult{Token: file.Token, URL: url, Err: err}
	}
	return results
}

func (u *Uploader) postSingle(ctx context.Context, file StagedFile) (url string, retryable bool, err error) {
	body, contentType, err := encodeMultipart([]StagedFile{file}, "image")
	if err != nil {
		return "", false, err
	}

	res, err := u.post(ctx, "/upload/image", body, contentType)
	if err != nil {
		// No response received: network-level failure, retryable.
		return "", true, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return "", true, fmt.Errorf("upload server error: %s", res.Status)
	}
	if res.StatusCode >= 400 {
		return "", false, fmt.Errorf("upload rejected: %s", res.Status)
	}

	var envelope struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return "", true, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if envelope.URL == "" {
		return "", true, errors.New("upload response missing url")
	}
	return envelope.URL, false, nil
}

func (u *Uploader) postBatch(ctx context.Context, files []StagedFile) ([]string, error) {
	body, contentType, err := encodeMultipart(files, "images")
	if err != nil {
		return nil, err
	}

	res, err := u.post(ctx, "/upload/images", body, contentType)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("batch upload failed: %s", res.Status)
	}

	var envelope struct {
		Files []struct {
			URL string `json:"url"`
		} `json:"files"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode batch upload response: %w", err)
	}
	urls := make([]string, 0, len(envelope.Files))
	for _, f := range envelope.Files {
		if f.URL != "" {
			urls = append(urls, f.URL)
		}
	}
	return urls, nil
}

func (u *Uploader) post(ctx context.Context, path string, body *bytes.Buffer, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	token, err := u.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return u.http.Do(req)
}

func encodeMultipart(files []StagedFile, fieldName string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, file.Name))
		if file.ContentType != "" {
			header.Set("Content-Type", file.ContentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create multipart section: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file content: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
