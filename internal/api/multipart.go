package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FilePart is one file attached to a multipart upload.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// PostMultipart uploads files and form fields as multipart/form-data and
// decodes the enveloped-or-bare payload into out.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field %s: %w", key, err)
		}
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("create form file %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("copy file %s: %w", file.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.execute(req)
	if err != nil {
		return err
	}
	return UnwrapData(body, out)
}
