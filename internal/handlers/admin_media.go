package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/imaging"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// presignExpiry is how long a presigned URL for private files is valid.
	presignExpiry = 1 * time.Hour
)

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// variantTypes are image types that get responsive variants. GIF is
// excluded to preserve animation; SVG is vector.
var variantTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaLibrary renders the media library page.
func (a *Admin) MediaLibrary(w http.ResponseWriter, r *http.Request) {
	a.mediaLibraryPage(w, r, "")
}

func (a *Admin) mediaLibraryPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	items, err := a.media.List(100, 0)
	if err != nil {
		slog.Error("list media failed", "error", err)
	}

	data := map[string]any{"Media": items}
	if a.storageClient == nil {
		data["Error"] = "Object storage is not configured; uploads are disabled."
	} else if errMsg != "" {
		data["Error"] = errMsg
	}

	a.page(w, r, "admin/media", "Media library", "media", data)
}

// MediaUpload handles multipart upload: sniffed content type against an
// allow-list, original to S3, responsive JPEG variants for images, and a
// metadata row in PostgreSQL.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		http.Error(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.mediaLibraryPage(w, r, "File too large. Maximum size is 50 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.mediaLibraryPage(w, r, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		a.mediaLibraryPage(w, r, "File too large. Maximum size is 50 MB.")
		return
	}

	// Detect content type by sniffing the first 512 bytes; the client's
	// declared type is not trusted.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		a.mediaLibraryPage(w, r, "Failed to read file.")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// DetectContentType reports SVGs as XML or plain text.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	if !allowedMediaTypes[contentType] {
		a.mediaLibraryPage(w, r, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		a.mediaLibraryPage(w, r, "Failed to process file.")
		return
	}
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		a.mediaLibraryPage(w, r, "Failed to read file.")
		return
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.New().String()
	s3Key := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)
	bucket := a.storageClient.PublicBucket()

	ctx := r.Context()
	if err := a.storageClient.Upload(ctx, bucket, s3Key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", s3Key)
		a.mediaLibraryPage(w, r, "Failed to upload file.")
		return
	}

	altText := strings.TrimSpace(r.FormValue("alt_text"))
	media := &models.Media{
		Filename:     fileID + ext,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileBytes)),
		Bucket:       bucket,
		S3Key:        s3Key,
		UploaderID:   sess.UserID,
	}
	if altText != "" {
		media.AltText = &altText
	}

	created, err := a.media.Create(media)
	if err != nil {
		slog.Error("media db insert failed", "error", err, "key", s3Key)
		a.mediaLibraryPage(w, r, "Failed to save file metadata.")
		return
	}

	// Variant generation is best-effort: a failed resize leaves the
	// original usable.
	if variantTypes[contentType] {
		processed, err := imaging.GenerateVariants(fileBytes, imaging.DefaultVariants)
		if err != nil {
			slog.Warn("variant generation failed", "error", err, "key", s3Key)
		} else {
			for _, v := range processed {
				vKey := fmt.Sprintf("media/%d/%02d/%s_%s.jpg", now.Year(), now.Month(), fileID, v.Name)
				if err := a.storageClient.Upload(ctx, bucket, vKey, v.ContentType, bytes.NewReader(v.Data), int64(len(v.Data))); err != nil {
					slog.Warn("variant upload failed", "error", err, "key", vKey)
					continue
				}
				_, err := a.media.AddVariant(&models.MediaVariant{
					MediaID:     created.ID,
					Name:        v.Name,
					Width:       v.Width,
					Height:      v.Height,
					S3Key:       vKey,
					ContentType: v.ContentType,
					SizeBytes:   int64(len(v.Data)),
				})
				if err != nil {
					slog.Warn("variant db insert failed", "error", err, "key", vKey)
				}
			}
		}
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaUpdateAlt saves the alt text edited inline in the library listing.
func (a *Admin) MediaUpdateAlt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.media.UpdateAltText(id, strings.TrimSpace(r.FormValue("alt_text"))); err != nil {
		slog.Error("media alt update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaDelete removes a media item: DB row, variants, and S3 objects.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	// Variants cascade on delete, so collect their keys first.
	variants, err := a.media.VariantsFor(id)
	if err != nil {
		slog.Error("list variants failed", "error", err)
	}

	deleted, err := a.media.Delete(id)
	if err != nil {
		slog.Error("media db delete failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	// S3 cleanup is best-effort; orphaned objects beat broken pages.
	if a.storageClient != nil {
		ctx := r.Context()
		if err := a.storageClient.Delete(ctx, deleted.Bucket, deleted.S3Key); err != nil {
			slog.Warn("s3 original delete failed", "error", err, "key", deleted.S3Key)
		}
		for _, v := range variants {
			if err := a.storageClient.Delete(ctx, deleted.Bucket, v.S3Key); err != nil {
				slog.Warn("s3 variant delete failed", "error", err, "key", v.S3Key)
			}
		}
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaServe provides the URL for a media item. Public files redirect to
// the direct S3 URL; private files get a time-limited presigned URL.
func (a *Admin) MediaServe(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		http.Error(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	media, err := a.media.FindByID(id)
	if err != nil {
		slog.Error("media lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if media == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if media.Bucket == a.storageClient.PublicBucket() {
		http.Redirect(w, r, a.storageClient.FileURL(media.S3Key), http.StatusFound)
		return
	}

	presigned, err := a.storageClient.PresignedURL(r.Context(), media.Bucket, media.S3Key, presignExpiry)
	if err != nil {
		slog.Error("presign failed", "error", err, "key", media.S3Key)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, presigned, http.StatusFound)
}

// extensionFromType maps a MIME type to a file extension for uploads
// whose original name had none.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
