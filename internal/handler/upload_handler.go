package handler

import (
	"io"
	"net/http"
	"regexp"

	"github.com/dev-bsvit/blog-gpt5/internal/port/storage"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type UploadHandler struct {
	storage storage.BlobStorage
	logger  *zap.Logger
}

func NewUploadHandler(s storage.BlobStorage, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		storage: s,
		logger:  logger,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// UploadCover accepts a multipart cover image with a mandatory alt text. The
// alt length bounds match the editor's accessibility requirements.
func (h *UploadHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	alt := r.FormValue("alt")
	if len(alt) < 10 || len(alt) > 140 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "alt length 10-140 required"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "file required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	name := unsafeNameChars.ReplaceAllString(header.Filename, "_")
	if name == "" {
		name = "image"
	}

	url, err := h.storage.Upload(r.Context(), name, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.logger.Error("Failed to store uploaded file", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	respondJSON(w, http.StatusOK, uploadResponse{URL: url, Alt: alt})
}
