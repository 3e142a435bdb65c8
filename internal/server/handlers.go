package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ukaji3/allotx-go/pkg/allotx"
	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"github.com/ukaji3/allotx-go/pkg/allotx/output"
)

// allowedExtensions lists the upload types the API accepts.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleExtract accepts a multipart upload in field "file" and responds
// with the extraction document. With ?download=true the document is sent
// as an attachment.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeResult(w, r, http.StatusBadRequest, models.NewFailure(fmt.Errorf("failed to read upload: %w", err)))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		s.writeResult(w, r, http.StatusBadRequest,
			models.NewFailure(fmt.Errorf("unsupported file type %q (must be .xlsx, .xls or .csv)", ext)))
		return
	}

	result := allotx.Extract(file, header.Filename, s.opts)
	logger := s.logger.With("request_id", RequestIDFrom(r.Context()), "file", header.Filename)
	if result.Failed() {
		logger.Warn("extraction failed", "message", result.Message)
	} else {
		logger.Info("extraction complete", "tables", len(result.Tables), "header_entries", result.Header.Len())
	}

	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.DownloadFilename))
	}
	s.writeResult(w, r, http.StatusOK, result)
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, status int, result *models.Result) {
	data, err := output.ToJSON(result, true)
	if err != nil {
		s.logger.Error("failed to encode result", "error", err, "request_id", RequestIDFrom(r.Context()))
		http.Error(w, "failed to encode result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
