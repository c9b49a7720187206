package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
)

type ImportHandler struct {
	importUsecase usecase.ImportUC
	logger        logger.Logger
}

func NewImportHandler(importUsecase usecase.ImportUC, logger logger.Logger) *ImportHandler {
	return &ImportHandler{importUsecase: importUsecase, logger: logger}
}

// importProducts
//
//	@Summary		Пакетный импорт товаров
//	@Description	Принимает CSV-файл, вставляет корректные строки и возвращает отчёт
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"CSV-файл импорта"
//	@Success		200		{object}	importReportResponse
//	@Failure		400		{object}	ErrorResponse	"Не multipart, пустой файл или файл слишком велик"
//	@Failure		403		{object}	ErrorResponse
//	@Router			/products/import [post]
func (h *ImportHandler) importProducts(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
		maxFileSize         = 10 << 20
	)

	caller, err := callerIdentity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}
	// временные файлы формы удаляются при любом исходе запроса
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		WriteError(w, e.ErrMissingFields)
		return
	}

	data, err := readFile(files[0], maxFileSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	report, err := h.importUsecase.ImportProducts(r.Context(), caller, &usecase.ImportReq{
		FileName: files[0].Filename,
		Data:     data,
	})
	if err != nil {
		h.logger.Warnf("Import failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newImportReportResponse(report))
}

// template отдаёт образец CSV для заполнения.
func (h *ImportHandler) template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="products_import_template.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(h.importUsecase.Template())
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	return data, nil
}
