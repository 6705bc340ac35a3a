package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

const megabyte = 1 << 20

// transferCtx derives a deadline scaled with payload size. Uploads of
// scanned question sheets and word-document exports can be large, and a
// flat timeout either kills slow transfers or lets dead ones hang.
func (c *Client) transferCtx(ctx context.Context, size int64) (context.Context, context.CancelFunc) {
	timeout := c.cfg.TransferBaseTimeout
	if size > 0 {
		timeout += c.cfg.TransferPerMB * time.Duration(1+size/megabyte)
	}
	return context.WithTimeout(ctx, timeout)
}

// UploadFile posts a multipart upload (the OCR question-extraction flow)
// and decodes the JSON response into out. The request is aborted through
// the context when the size-scaled deadline passes.
func (c *Client) UploadFile(ctx context.Context, path, field, filename string, file io.Reader, size int64, out any) error {
	token := c.store.Token()
	if token == "" {
		return domain.ErrUnauthenticated
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	ctx, cancel := c.transferCtx(ctx, size)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			c.log.Warn("upload aborted on deadline", zap.String("path", path), zap.Int64("size", size))
			return &domain.TimeoutError{Op: "upload " + filename}
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(http.MethodPost, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RequestError{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode upload response: %w", err)
	}
	return nil
}

// Download fetches a binary document (word export). sizeHint scales the
// deadline when the caller knows roughly how large the document is; zero
// means the base transfer timeout.
func (c *Client) Download(ctx context.Context, path string, sizeHint int64) ([]byte, string, error) {
	token := c.store.Token()
	if token == "" {
		return nil, "", domain.ErrUnauthenticated
	}

	ctx, cancel := c.transferCtx(ctx, sizeHint)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, "", &domain.TimeoutError{Op: "download " + path}
		}
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, "", c.handleUnauthorized(http.MethodGet, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &domain.RequestError{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	return data, resp.Header.Get("Content-Type"), nil
}
