package controllers

import (
	"io"
	"net/http"

	"github.com/dealerhub/dealerhub-backend/api/responses"
	"github.com/dealerhub/dealerhub-backend/internal/media"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

// uploadMaxBytes bounds the multipart read; the per-slot size policy is
// enforced by the media service.
const uploadMaxBytes = 64 << 20

// MediaUpload accepts a multipart form with a "slot" field and a "file" part.
func MediaUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(uploadMaxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		slot, err := enums.ParseUploadSlot(r.FormValue("slot"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "upload validation failed").
				WithDetails(map[string]string{"slot": "is not a recognized upload slot"}))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file is required").
				WithDetails(map[string]string{"file": "is required"}))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, uploadMaxBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		dto, err := svc.Upload(r.Context(), slot, header.Filename, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "file uploaded", dto)
	}
}
