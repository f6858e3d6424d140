package controllers

import (
	"net/http"

	"github.com/dealerhub/dealerhub-backend/api/responses"
	"github.com/dealerhub/dealerhub-backend/internal/export"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

// importMaxBytes caps the uploaded workbook size.
const importMaxBytes = 16 << 20

func CarsExportPDF(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseCarListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.ExportPDF(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBlob(w, file.Name, file.ContentType, file.Data)
	}
}

func CarsExportExcel(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseCarListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.ExportExcel(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBlob(w, file.Name, file.ContentType, file.Data)
	}
}

// CarsImportExcel accepts a multipart form with the workbook under "file".
func CarsImportExcel(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(importMaxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file is required").
				WithDetails(map[string]string{"file": "is required"}))
			return
		}
		defer file.Close()

		result, err := svc.ImportExcel(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "import complete", result)
	}
}
