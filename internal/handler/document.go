package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"docvault/internal/config"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// Multipart forms buffer this much in memory before spilling to disk.
const multipartMemory = 10 << 20

// DocumentHandler handles document and version HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocument creates a new document from a multipart form. The file part
// is optional; without it the document starts as metadata only.
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, file, cleanup, err := parseDocumentForm(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	doc, err := h.docService.CreateDocument(r.Context(), p, req, file, httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments lists documents visible to the principal
// GET /api/documents?folder_id=&tag_id=&search=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var filter repositories.DocumentFilter
	q := r.URL.Query()
	if v := q.Get("folder_id"); v != "" {
		filter.FolderID = &v
	}
	if v := q.Get("tag_id"); v != "" {
		filter.TagID = &v
	}
	filter.Search = q.Get("search")

	docs, err := h.docService.ListDocuments(r.Context(), p, filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument updates document metadata
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), p, r.PathValue("id"), &req, nil, httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ReplaceFile uploads a new file for the document, bumping its version
// PUT /api/documents/{id}/file
func (h *DocumentHandler) ReplaceFile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	file, cleanup, err := parseFilePart(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if file == nil {
		httputil.RespondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer cleanup()

	doc, err := h.docService.UpdateDocument(r.Context(), p, r.PathValue("id"), &services.UpdateDocumentRequest{}, file, httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document, keeping its audit trail
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), p, r.PathValue("id"), httputil.ClientIP(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download streams the document's current file
// GET /api/documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.docService.Download(r.Context(), p, r.PathValue("id"), httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	h.stream(w, result)
}

// ListVersions lists a document's versions, newest first
// GET /api/documents/{id}/versions
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	versions, err := h.docService.ListVersions(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion retrieves a single version snapshot
// GET /api/versions/{id}
func (h *DocumentHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	version, err := h.docService.GetVersion(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// DownloadVersion streams a specific version's file
// GET /api/versions/{id}/download
func (h *DocumentHandler) DownloadVersion(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.docService.DownloadVersion(r.Context(), p, r.PathValue("id"), httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	h.stream(w, result)
}

// ShareDocument adds users to the document's shared set
// POST /api/documents/{id}/share
func (h *DocumentHandler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	h.updateShares(w, r, h.docService.Share)
}

// UnshareDocument removes users from the document's shared set
// POST /api/documents/{id}/unshare
func (h *DocumentHandler) UnshareDocument(w http.ResponseWriter, r *http.Request) {
	h.updateShares(w, r, h.docService.Unshare)
}

func (h *DocumentHandler) updateShares(w http.ResponseWriter, r *http.Request, apply func(context.Context, models.Principal, string, []string, string) (*models.Document, error)) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req ShareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := apply(r.Context(), p, r.PathValue("id"), req.UserIDs, httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) stream(w http.ResponseWriter, result *services.DownloadResult) {
	defer result.Content.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	if result.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.Size, 10))
	}

	if _, err := io.Copy(w, result.Content); err != nil {
		// Headers are gone; all we can do is log the broken transfer
		h.logger.Warn("download stream interrupted", "filename", result.Filename, "error", err)
	}
}

// parseDocumentForm reads a multipart creation form: title, description,
// folder_id, is_public, repeated tag_ids and an optional file part.
func parseDocumentForm(w http.ResponseWriter, r *http.Request) (*services.CreateDocumentRequest, *services.UploadedFile, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	req := &services.CreateDocumentRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		IsPublic:    r.FormValue("is_public") == "true",
	}
	if v := r.FormValue("folder_id"); v != "" {
		folderID := v
		req.FolderID = &folderID
	}
	if r.MultipartForm != nil {
		req.TagIDs = r.MultipartForm.Value["tag_ids"]
	}

	file, cleanup, err := parseFilePart(w, r)
	if err != nil {
		return nil, nil, nil, err
	}
	if cleanup == nil {
		cleanup = func() {}
	}
	return req, file, cleanup, nil
}

// parseFilePart extracts the optional "file" part of a multipart form
func parseFilePart(w http.ResponseWriter, r *http.Request) (*services.UploadedFile, func(), error) {
	if r.MultipartForm == nil {
		r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+(1<<20))
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, nil, fmt.Errorf("read file part: %w", err)
	}

	upload := &services.UploadedFile{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return upload, func() { file.Close() }, nil
}
