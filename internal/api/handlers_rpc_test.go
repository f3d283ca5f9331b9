// handlers_rpc_test.go - Tests for the ProcessPdf RPC handler
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pdf-processor/backend/internal/models"
	"github.com/pdf-processor/backend/internal/processor"
	"github.com/pdf-processor/backend/internal/storage"
	"github.com/pdf-processor/backend/internal/testutil"
	"github.com/pdf-processor/backend/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type blockedPool struct{}

func (blockedPool) Do(ctx context.Context, fn func()) error { return context.Canceled }
func (blockedPool) Capacity() int                           { return 1 }
func (blockedPool) InFlight() int                           { return 1 }

func newTestProcessor(store storage.Store) *processor.Processor {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return processor.NewProcessor(store, processor.NewSimulatedSummarizer(0), l)
}

func newRPCContext(body []byte, contentType, accept string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, ProcessPdfPath, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRPCHandler_HandleProcessPdf_JSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantStatus int
		errCode    string
		wantSaved  string
	}{
		{
			name:      "valid upload",
			body:      `{"filename":"report.pdf","pdf_content":"` + base64.StdEncoding.EncodeToString([]byte("%PDF")) + `"}`,
			wantSaved: "report.pdf",
		},
		{
			name:      "empty filename falls back",
			body:      `{"filename":"","pdf_content":"` + base64.StdEncoding.EncodeToString([]byte("%PDF")) + `"}`,
			wantSaved: storage.DefaultFallbackName,
		},
		{
			name:      "empty content is allowed",
			body:      `{"filename":"empty.pdf","pdf_content":""}`,
			wantSaved: "empty.pdf",
		},
		{
			name:      "traversal is stripped",
			body:      `{"filename":"../../etc/passwd","pdf_content":"eA=="}`,
			wantSaved: "passwd",
		},
		{
			name:       "missing filename",
			body:       `{"pdf_content":"eA=="}`,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name:       "missing content",
			body:       `{"filename":"report.pdf"}`,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name:       "null content",
			body:       `{"filename":"report.pdf","pdf_content":null}`,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name:       "invalid json",
			body:       `{"filename":`,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
			errCode:    "BAD_REQUEST",
		},
		{
			name:       "invalid base64",
			body:       `{"filename":"a.pdf","pdf_content":"not-valid-base64!!!"}`,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
			errCode:    "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			handler := NewRPCHandler(newTestProcessor(store), worker.NewPool(2))
			c, rec := newRPCContext([]byte(tt.body), echo.MIMEApplicationJSON, "")

			err := handler.HandleProcessPdf(c)

			if tt.wantErr {
				require.Error(t, err)
				apiErr, ok := err.(*APIError)
				require.True(t, ok, "expected APIError, got %T", err)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
				assert.Equal(t, tt.errCode, apiErr.Code)
				assert.Equal(t, 0, store.SaveCalls())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)

			var res models.UploadResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.True(t, res.SavedSuccessfully)
			assert.Equal(t, tt.wantSaved, res.SavedFilenameServer)
			assert.Equal(t, models.StatusSimulatedComplete, res.ProcessingStatus)
			assert.Empty(t, res.ErrorInfo)
		})
	}
}

func TestRPCHandler_HandleProcessPdf_WireFieldNames(t *testing.T) {
	handler := NewRPCHandler(newTestProcessor(testutil.NewMockStorage()), worker.NewPool(1))
	c, rec := newRPCContext([]byte(`{"filename":"a.pdf","pdf_content":"eA=="}`), "", "")

	require.NoError(t, handler.HandleProcessPdf(c))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{
		"original_filename", "save_attempted", "saved_successfully",
		"saved_filename_server", "processing_status", "simulated_text_summary", "error_info",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "", raw["error_info"])
	assert.Equal(t, "Text from 'a.pdf' processed.", raw["simulated_text_summary"])
}

func TestRPCHandler_HandleProcessPdf_Msgpack(t *testing.T) {
	content := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0x10}
	body, err := msgpack.Marshal(&models.UploadRequest{Filename: "bin.pdf", Content: content})
	require.NoError(t, err)

	store := testutil.NewMockStorage()
	handler := NewRPCHandler(newTestProcessor(store), worker.NewPool(1))
	c, rec := newRPCContext(body, echo.MIMEApplicationMsgpack, "")

	require.NoError(t, handler.HandleProcessPdf(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMEApplicationMsgpack, rec.Header().Get(echo.HeaderContentType))

	var res models.UploadResult
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.SavedSuccessfully)
	assert.Equal(t, "bin.pdf", res.SavedFilenameServer)

	stored, err := store.GetFileData("bin.pdf")
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestRPCHandler_HandleProcessPdf_AcceptOverridesCodec(t *testing.T) {
	body, err := msgpack.Marshal(&models.UploadRequest{Filename: "x.pdf", Content: []byte("x")})
	require.NoError(t, err)

	handler := NewRPCHandler(newTestProcessor(testutil.NewMockStorage()), worker.NewPool(1))
	c, rec := newRPCContext(body, mimeXMsgpack, echo.MIMEApplicationJSON)

	require.NoError(t, handler.HandleProcessPdf(c))

	var res models.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "x.pdf", res.SavedFilenameServer)
}

func TestRPCHandler_HandleProcessPdf_SaveFailureIsNotTransportError(t *testing.T) {
	handler := NewRPCHandler(newTestProcessor(testutil.NewFailingStorage(nil)), worker.NewPool(1))
	c, rec := newRPCContext([]byte(`{"filename":"locked.pdf","pdf_content":"eA=="}`), echo.MIMEApplicationJSON, "")

	require.NoError(t, handler.HandleProcessPdf(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var res models.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.SaveAttempted)
	assert.False(t, res.SavedSuccessfully)
	assert.Empty(t, res.SavedFilenameServer)
	assert.NotEmpty(t, res.ErrorInfo)
	assert.Equal(t, models.StatusErrorSavingFile, res.ProcessingStatus)
	assert.Equal(t, "locked.pdf", res.OriginalFilename)
}

func TestRPCHandler_HandleProcessPdf_UnsupportedMediaType(t *testing.T) {
	handler := NewRPCHandler(newTestProcessor(testutil.NewMockStorage()), worker.NewPool(1))
	c, _ := newRPCContext([]byte("hello"), echo.MIMETextPlain, "")

	err := handler.HandleProcessPdf(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.Status)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", apiErr.Code)
}

func TestRPCHandler_HandleProcessPdf_NoWorker(t *testing.T) {
	store := testutil.NewMockStorage()
	handler := NewRPCHandler(newTestProcessor(store), blockedPool{})
	c, _ := newRPCContext([]byte(`{"filename":"a.pdf","pdf_content":"eA=="}`), echo.MIMEApplicationJSON, "")

	err := handler.HandleProcessPdf(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, 0, store.SaveCalls())
}

func TestRoutes_EndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploaded_pdfs")
	pool := worker.NewPool(4)

	e := echo.New()
	SetupMiddleware(e, MiddlewareOptions{BodyLimit: "1K"})
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Processor: newTestProcessor(storage.NewLocalStore(dir, "")),
		Pool:      pool,
		Version:   "test",
	}))

	t.Run("process pdf", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, ProcessPdfPath,
			bytes.NewBufferString(`{"filename":"C:\\docs\\report.pdf","pdf_content":"JVBERg=="}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		assert.Contains(t, rec.Body.String(), `"saved_filename_server":"report.pdf"`)

		data, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(data))
	})

	t.Run("malformed body uses error envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, ProcessPdfPath, bytes.NewBufferString(`{`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)
	})

	t.Run("body limit", func(t *testing.T) {
		payload, err := json.Marshal(models.UploadRequest{Filename: "big.pdf", Content: make([]byte, 4096)})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, ProcessPdfPath, bytes.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.NoFileExists(t, filepath.Join(dir, "big.pdf"))
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, ProcessPdfPath, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, HealthPath, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
		assert.Contains(t, rec.Body.String(), `"version":"test"`)
		assert.Contains(t, rec.Body.String(), `"capacity":4`)
	})
}
