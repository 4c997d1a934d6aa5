// internal/backend/requests.go
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
)

const (
	pathCreateRequest = "/assign/request-registrations/"
	pathUploadPDF     = "/assign/request-registrations/%d/upload-pdf/"

	// PDFField is the multipart field the backend reads the document from.
	PDFField = "pdf_file"
)

// CreateRequest posts the nested request payload. A missing id is not an
// error here; the caller decides what to do without one.
func (c *Client) CreateRequest(ctx context.Context, payload models.RequestPayload) (models.CreateRequestResponse, error) {
	body, err := c.postJSON(ctx, pathCreateRequest, payload)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return models.CreateRequestResponse{}, &request.RequestCreationError{
				Status:  httpErr.Status,
				Message: httpErr.Message,
				Err:     httpErr,
			}
		}
		return models.CreateRequestResponse{}, &request.RequestCreationError{Err: err}
	}
	return models.CreateRequestResponse{
		ID:      extractRequestID(body),
		Message: extractMessage(body),
	}, nil
}

// UploadPDF attaches the document to a created request.
func (c *Client) UploadPDF(ctx context.Context, requestID int64, filename string, file io.Reader) (models.UploadPDFResponse, error) {
	if requestID <= 0 {
		return models.UploadPDFResponse{}, &request.PDFUploadError{RequestID: requestID, Err: request.ErrMissingRequestID}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, PDFField, filename))
	header.Set("Content-Type", request.PDFMimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return models.UploadPDFResponse{}, &request.PDFUploadError{RequestID: requestID, Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.UploadPDFResponse{}, &request.PDFUploadError{RequestID: requestID, Err: err}
	}
	if err := mw.Close(); err != nil {
		return models.UploadPDFResponse{}, &request.PDFUploadError{RequestID: requestID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fmt.Sprintf(pathUploadPDF, requestID), &buf)
	if err != nil {
		return models.UploadPDFResponse{}, &request.PDFUploadError{RequestID: requestID, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return models.UploadPDFResponse{}, &request.PDFUploadError{
				RequestID: requestID,
				Status:    httpErr.Status,
				Message:   httpErr.Message,
				Err:       httpErr,
			}
		}
		return models.UploadPDFResponse{}, &request.PDFUploadError{RequestID: requestID, Err: err}
	}
	return decodeUploadResponse(body), nil
}

// decodeUploadResponse treats a 2xx answer as success unless the body says
// otherwise explicitly.
func decodeUploadResponse(body []byte) models.UploadPDFResponse {
	resp := models.UploadPDFResponse{Success: true, Message: extractMessage(body)}
	if v, err := decodeValue(body); err == nil {
		if obj, ok := v.(map[string]any); ok {
			resp.Success = boolField(record(obj), true, "success")
		}
	}
	return resp
}
