package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/netinventory/internal/core"
	mw "github.com/JonMunkholm/netinventory/internal/web/middleware"
)

const uploadFailedMessage = "Upload failed. Please check the file format and try again."

// multipartMemory is how much of a multipart form is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Message   string `json:"message"`
	SessionID int64  `json:"sessionId"`
	RowCount  int    `json:"rowCount"`
}

// handleUpload imports one spreadsheet (form fields "file" and "region").
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	claims, _ := mw.ClaimsFromContext(r.Context())

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("file too large: %w", err), http.StatusBadRequest)
			return
		}
		respondFailure(w, r, err, http.StatusBadRequest, "File and region are required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	regionValue := r.FormValue("region")
	if err != nil || regionValue == "" {
		if err == nil {
			file.Close()
			err = errors.New("missing region")
		} else {
			err = fmt.Errorf("no file provided: %w", err)
		}
		respondFailure(w, r, err, http.StatusBadRequest, "File and region are required")
		return
	}
	defer file.Close()

	region, err := core.ParseRegion(regionValue)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondFailure(w, r, err, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	req := core.ImportRequest{
		Region:   region,
		FileName: header.Filename,
		Data:     data,
	}
	if claims != nil {
		req.UserID = claims.UserID
	}

	result, err := s.inv.Import(withRequestMetadata(r.Context(), r), req)
	switch {
	case err == nil:
	case core.IsValidation(err):
		respondError(w, r, err, http.StatusBadRequest)
		return
	case errors.Is(err, core.ErrTooManyUploads):
		w.Header().Set("Retry-After", "30")
		respondError(w, r, err, http.StatusTooManyRequests)
		return
	default:
		respondFailure(w, r, err, http.StatusInternalServerError, uploadFailedMessage)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:   fmt.Sprintf("Data imported successfully for %s region from sheet %q", result.Region, result.Sheet),
		SessionID: result.SessionID,
		RowCount:  result.RowCount,
	})
}
