package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/de-tools/policy-report/pkg/models/api"
	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

// DefaultEndpoint is the route the policy processing backend serves.
const DefaultEndpoint = "http://localhost:8000/process"

const (
	fieldCompanyName = "company_name"
	fieldPolicyFile  = "policy_file"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type Processor interface {
	Process(ctx context.Context, submission domain.Submission) (*api.ReportResponse, error)
}

type httpProcessor struct {
	endpoint string
	client   *http.Client
}

// NewProcessor returns a Processor posting to endpoint. The request is made
// once: no timeout is set and nothing is retried.
func NewProcessor(endpoint string, httpClient *http.Client) Processor {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &httpProcessor{
		endpoint: endpoint,
		client:   httpClient,
	}
}

func (p *httpProcessor) Process(ctx context.Context, submission domain.Submission) (*api.ReportResponse, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("company", submission.CompanyName).
		Str("filename", submission.File.Name).
		Logger()

	body, contentType, err := encodeSubmission(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logger.Debug().Str("endpoint", p.endpoint).Msg("posting policy file")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug().
		Int("status", res.StatusCode).
		Int("bytes", len(raw)).
		Msg("backend responded")

	success := res.StatusCode >= 200 && res.StatusCode <= 299

	resp, err := decodeResponse(raw)
	if err != nil {
		// a well-formed error reply that is not an object still reports the status
		if success || !json.Valid(raw) {
			return nil, err
		}
		resp = &api.ReportResponse{}
	}

	if !success {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = defaultBackendErrorMsg
		}
		return nil, &BackendError{StatusCode: res.StatusCode, Message: msg}
	}

	return resp, nil
}

func decodeResponse(raw []byte) (*api.ReportResponse, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyResponse
	}

	if !json.Valid(raw) {
		return nil, newInvalidJSONError(raw, errors.New("malformed JSON"))
	}

	// Field types are not checked here: a well-formed body always yields its
	// error message and whatever fields decode.
	var resp api.ReportResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, newInvalidJSONError(raw, err)
	}
	return &resp, nil
}

func encodeSubmission(submission domain.Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(fieldCompanyName, submission.CompanyName); err != nil {
		return nil, "", err
	}

	fileType := submission.File.ContentType
	if fileType == "" {
		fileType = mime.TypeByExtension(filepath.Ext(submission.File.Name))
	}
	if fileType == "" {
		fileType = http.DetectContentType(submission.File.Content)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		fieldPolicyFile, quoteEscaper.Replace(submission.File.Name)))
	h.Set("Content-Type", fileType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(submission.File.Content); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
