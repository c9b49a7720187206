package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
)

type stubImportUC struct {
	lastReq *usecase.ImportReq
	report  *usecase.ImportReport
}

func (s *stubImportUC) ImportProducts(ctx context.Context, caller usecase.Identity, req *usecase.ImportReq) (*usecase.ImportReport, error) {
	s.lastReq = req
	return s.report, nil
}

func (s *stubImportUC) Template() []byte {
	return []byte("name,description\n")
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	admin := usecase.Identity{UserID: 1, Role: domain.RoleAdmin}
	return r.WithContext(usecase.ContextWithIdentity(r.Context(), admin))
}

func TestImportProducts_Handler(t *testing.T) {
	t.Run("uploads the form file and returns the report", func(t *testing.T) {
		uc := &stubImportUC{report: &usecase.ImportReport{TotalRows: 2, Inserted: 2}}
		h := NewImportHandler(uc, nopLogger{})

		rec := httptest.NewRecorder()
		h.importProducts(rec, multipartUpload(t, "file", "products.csv", "name,description\na,b\nc,d\n"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, uc.lastReq)
		assert.Equal(t, "products.csv", uc.lastReq.FileName)
		assert.Contains(t, string(uc.lastReq.Data), "a,b")
	})

	t.Run("rejects non-multipart body", func(t *testing.T) {
		h := NewImportHandler(&stubImportUC{}, nopLogger{})

		r := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", bytes.NewBufferString("{}"))
		r.Header.Set("Content-Type", "application/json")
		r = r.WithContext(usecase.ContextWithIdentity(r.Context(), usecase.Identity{UserID: 1, Role: domain.RoleAdmin}))

		rec := httptest.NewRecorder()
		h.importProducts(rec, r)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		h := NewImportHandler(&stubImportUC{}, nopLogger{})

		rec := httptest.NewRecorder()
		h.importProducts(rec, multipartUpload(t, "attachment", "products.csv", "x"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		h := NewImportHandler(&stubImportUC{}, nopLogger{})

		r := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", nil)
		rec := httptest.NewRecorder()
		h.importProducts(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
