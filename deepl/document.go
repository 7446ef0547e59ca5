package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
)

// DefaultDownloadChunkSize is the buffer size used when streaming a
// translated document into a sink.
const DefaultDownloadChunkSize = 32 * 1024

// DownloadOption configures a document download.
type DownloadOption func(*downloadOptions)

type downloadOptions struct {
	output    io.Writer
	chunkSize int
}

// WithOutput streams the document into w instead of returning the body
// handle. DownloadDocument then returns a nil reader.
func WithOutput(w io.Writer) DownloadOption {
	return func(o *downloadOptions) { o.output = w }
}

// WithChunkSize sets the copy buffer size used with WithOutput.
func WithChunkSize(size int) DownloadOption {
	return func(o *downloadOptions) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// DocumentStatus reports the progress of the document translation identified
// by handle. A document that failed still yields a status, not an error; use
// DocumentStatus.TranslationError to surface the failure as one.
func (t *Translator) DocumentStatus(ctx context.Context, handle DocumentHandle) (*DocumentStatus, error) {
	path := "v2/document/" + url.PathEscape(handle.DocumentID)
	body := map[string]string{"document_key": handle.DocumentKey}

	res, err := t.apiCall(ctx, nethttp.MethodPost, path, nil, nil, body, false)
	if err != nil {
		return nil, err
	}
	if err := t.raiseForStatus(res, false); err != nil {
		return nil, err
	}

	var status DocumentStatus
	if err := json.Unmarshal([]byte(res.text), &status); err != nil {
		return nil, fmt.Errorf("deepl: failed to decode document status response: %w", err)
	}
	if status.DocumentID == "" {
		status.DocumentID = handle.DocumentID
	}
	return &status, nil
}

// TranslationError returns a DocumentTranslationError when the document
// finished in the error state, nil otherwise.
func (s DocumentStatus) TranslationError() error {
	if s.Status != DocumentStatusError {
		return nil
	}
	message := s.ErrorMessage
	if message == "" {
		message = "document translation failed"
	}
	return &DocumentTranslationError{
		APIError: APIError{Message: message},
		Handle:   DocumentHandle{DocumentID: s.DocumentID},
	}
}

// DownloadDocument fetches the translated document identified by handle.
// Without options it returns a live body handle the caller must close; the
// response stays streamed so arbitrarily large documents never buffer in
// memory. With WithOutput the body is copied into the sink in fixed-size
// chunks and the returned reader is nil. A document that is still
// translating yields a DocumentNotReadyError.
func (t *Translator) DownloadDocument(ctx context.Context, handle DocumentHandle, opts ...DownloadOption) (io.ReadCloser, error) {
	options := downloadOptions{chunkSize: DefaultDownloadChunkSize}
	for _, opt := range opts {
		opt(&options)
	}

	path := "v2/document/" + url.PathEscape(handle.DocumentID) + "/result"
	body := map[string]string{"document_key": handle.DocumentKey}

	res, err := t.apiCall(ctx, nethttp.MethodPost, path, nil, nil, body, true)
	if err != nil {
		return nil, err
	}
	if err := t.raiseForStatus(res, true); err != nil {
		return nil, err
	}

	if options.output == nil {
		return res.body, nil
	}

	defer res.body.Close()
	buf := make([]byte, options.chunkSize)
	for {
		n, readErr := res.body.Read(buf)
		if n > 0 {
			if _, writeErr := options.output.Write(buf[:n]); writeErr != nil {
				return nil, fmt.Errorf("deepl: failed to write downloaded document: %w", writeErr)
			}
		}
		if readErr == io.EOF {
			return nil, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("deepl: document download interrupted: %w", readErr)
		}
	}
}
