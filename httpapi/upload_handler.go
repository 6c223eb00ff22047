package httpapi

import (
	"context"
	"net/http"
	"strings"

	"kinderwork/middleware"
	"kinderwork/storage"
)

// maxUploadBytes bounds one multipart upload (10 MiB).
const maxUploadBytes = 10 << 20

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, params storage.UploadParams) (string, error)
}

// AttachmentStore persists the upload's ownership row and lists a
// user's uploads.
type AttachmentStore interface {
	Record(ctx context.Context, a storage.Attachment) (storage.Attachment, error)
	ListByUploader(ctx context.Context, userID string) ([]storage.Attachment, error)
}

// UploadRecorder counts stored files.
type UploadRecorder interface {
	RecordUpload()
}

// UploadHandler serves the /api/uploads routes.
type UploadHandler struct {
	uploader    Uploader
	attachments AttachmentStore
	recorder    UploadRecorder
}

func NewUploadHandler(uploader Uploader, attachments AttachmentStore, recorder UploadRecorder) *UploadHandler {
	return &UploadHandler{
		uploader:    uploader,
		attachments: attachments,
		recorder:    recorder,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload accepts one multipart file plus bucket and entity fields and
// returns the stored object's public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart body required or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file field required")
		return
	}
	defer file.Close()

	bucket := r.FormValue("bucket")
	contentType := header.Header.Get("Content-Type")

	url, err := h.uploader.Upload(r.Context(), storage.UploadParams{
		Bucket:      bucket,
		Path:        userID,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	attachment := storage.Attachment{
		UploadedBy: userID,
		Bucket:     bucket,
		ObjectName: objectNameFromURL(url, bucket),
		PublicURL:  url,
		SizeBytes:  header.Size,
	}
	if contentType != "" {
		attachment.ContentType = &contentType
	}
	if entityType := r.FormValue("entity_type"); entityType != "" {
		attachment.EntityType = &entityType
	}
	if entityID := r.FormValue("entity_id"); entityID != "" {
		attachment.EntityID = &entityID
	}
	if _, err := h.attachments.Record(r.Context(), attachment); err != nil {
		writeDomainError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordUpload()
	}
	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

// List handles GET /api/uploads: the caller's own uploads, newest
// first.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	items, err := h.attachments.ListByUploader(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttachmentViews(items))
}

// objectNameFromURL strips the base URL and bucket prefix, leaving the
// object name as stored.
func objectNameFromURL(url, bucket string) string {
	marker := "/" + bucket + "/"
	if idx := strings.Index(url, marker); idx >= 0 {
		return url[idx+len(marker):]
	}
	return url
}
