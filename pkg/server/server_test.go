package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	handlers "github.com/de-tools/policy-report/pkg/handlers/report"
	"github.com/de-tools/policy-report/pkg/models/api"
	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, submission domain.Submission) (*api.ReportResponse, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ReportResponse), args.Error(1)
}

func newTestServer(t *testing.T, processor client.Processor) *httptest.Server {
	t.Helper()
	router := ConfigureRouter(Config{
		Dependencies: Dependencies{
			Processor: processor,
			Logger:    zerolog.New(zerolog.NewTestWriter(t)),
		},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func uploadBody(t *testing.T, company, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("company_name", company))
	if filename != "" {
		part, err := w.CreateFormFile("policy_file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, srv *httptest.Server, company, filename string, content []byte) (*http.Response, handlers.ProcessResponse) {
	t.Helper()
	body, contentType := uploadBody(t, company, filename, content)
	resp, err := http.Post(srv.URL+"/api/v1/process", contentType, body)
	require.NoError(t, err, "Failed to send request")
	defer resp.Body.Close()

	var out handlers.ProcessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestWebAPI_Health(t *testing.T) {
	srv := newTestServer(t, new(mockProcessor))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))
}

func TestWebAPI_Index(t *testing.T) {
	srv := newTestServer(t, new(mockProcessor))

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `id="policy-file"`)
	assert.Contains(t, string(body), `id="process-btn" disabled`)
}

func TestWebAPI_ProcessAndDownload(t *testing.T) {
	csvData := "segment,payin\nMotor,12%\n"
	processor := new(mockProcessor)
	processor.On("Process", mock.Anything, mock.MatchedBy(func(s domain.Submission) bool {
		return s.CompanyName == "Acme" &&
			s.File.Name == "policies.pdf" &&
			string(s.File.Content) == "%PDF-1.4"
	})).Return(&api.ReportResponse{
		CalculatedData: []json.RawMessage{
			json.RawMessage(`{"segment":"Motor","payin":"12%"}`),
		},
		CSVData:       &csvData,
		ExtractedText: "raw text",
	}, nil).Once()

	srv := newTestServer(t, processor)

	resp, out := postUpload(t, srv, "Acme", "policies.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, handlers.StatusSuccess, out.Status)
	assert.Equal(t, "✅ Policy file processed successfully!", out.Message)
	require.NotEmpty(t, out.ID)
	require.NotNil(t, out.Page)
	require.Len(t, out.Page.Results, 1)
	assert.Equal(t, "Motor", out.Page.Results[0].Segment)
	assert.Equal(t, "N/A", out.Page.Results[0].Location)
	assert.Equal(t, "raw text", out.Page.ExtractedText)

	dl, err := http.Get(srv.URL + "/api/v1/reports/" + out.ID + "/download/csv")
	require.NoError(t, err)
	defer dl.Body.Close()

	assert.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Equal(t, "Acme_processed_policies.csv", attachmentFilename(t, dl))
	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "segment,payin\nMotor,12%\n", string(data))

	missing, err := http.Get(srv.URL + "/api/v1/reports/" + out.ID + "/download/excel")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	processor.AssertExpectations(t)
}

func attachmentFilename(t *testing.T, resp *http.Response) string {
	t.Helper()
	disposition, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	return params["filename"]
}

func TestWebAPI_DownloadFilenameQuoting(t *testing.T) {
	csvData := "a,b\n"
	tests := []struct {
		name    string
		company string
	}{
		{name: "Quotes", company: `Acme "Co"`},
		{name: "NonASCII", company: "Société Générale"},
		{name: "Separators", company: "A; B, C"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			processor := new(mockProcessor)
			processor.On("Process", mock.Anything, mock.Anything).
				Return(&api.ReportResponse{CSVData: &csvData}, nil).Once()
			srv := newTestServer(t, processor)

			_, out := postUpload(t, srv, tc.company, "policies.pdf", []byte("data"))
			require.NotEmpty(t, out.ID)

			dl, err := http.Get(srv.URL + "/api/v1/reports/" + out.ID + "/download/csv")
			require.NoError(t, err)
			defer dl.Body.Close()

			assert.Equal(t, http.StatusOK, dl.StatusCode)
			assert.Equal(t, tc.company+"_processed_policies.csv", attachmentFilename(t, dl))
		})
	}
}

func TestWebAPI_ProcessEmptyFileIsForwarded(t *testing.T) {
	processor := new(mockProcessor)
	processor.On("Process", mock.Anything, mock.MatchedBy(func(s domain.Submission) bool {
		return s.File.Name == "empty.pdf" && len(s.File.Content) == 0
	})).Return(nil, &client.BackendError{StatusCode: http.StatusBadRequest, Message: "Empty file"}).Once()

	srv := newTestServer(t, processor)

	resp, out := postUpload(t, srv, "Acme", "empty.pdf", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "❌ Empty file", out.Message)
	processor.AssertExpectations(t)
}

func TestWebAPI_ProcessBackendError(t *testing.T) {
	processor := new(mockProcessor)
	processor.On("Process", mock.Anything, mock.Anything).
		Return(nil, &client.BackendError{StatusCode: http.StatusInternalServerError, Message: "bad file"}).Once()

	srv := newTestServer(t, processor)

	resp, out := postUpload(t, srv, "", "policies.pdf", []byte("data"))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, handlers.StatusError, out.Status)
	assert.Equal(t, "❌ bad file", out.Message)
	assert.Empty(t, out.ID)
	assert.Nil(t, out.Page)
}

func TestWebAPI_ProcessWithoutFile(t *testing.T) {
	processor := new(mockProcessor)
	srv := newTestServer(t, processor)

	body, contentType := uploadBody(t, "Acme", "", nil)
	resp, err := http.Post(srv.URL+"/api/v1/process", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "policy file is required", out.Error)
	processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestWebAPI_DownloadErrors(t *testing.T) {
	srv := newTestServer(t, new(mockProcessor))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "UnknownReport",
			path:           "/api/v1/reports/does-not-exist/download/csv",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "UnknownKind",
			path:           "/api/v1/reports/does-not-exist/download/pdf",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")
		})
	}
}
