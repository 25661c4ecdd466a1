package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"campwild/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// Folder groups uploaded files under a single path segment so thumbnail
	// URLs can be derived by prefix replacement.
	Folder = "campwild"

	// ThumbnailSegment is the path segment that selects the 200px-wide
	// rendition of an image.
	ThumbnailSegment = "w_200"

	// ThumbnailWidth is the pixel width of generated thumbnails.
	ThumbnailWidth = 200

	// MasterMaxSize caps the stored rendition's longest edge.
	MasterMaxSize = 2048

	JPEGQuality = 82
	WebPQuality = 70
)

// DiskStore is an ImageStore backed by the local filesystem. Masters live
// under <root>/campwild/ as JPEG and thumbnails under <root>/w_200/campwild/
// as WebP.
type DiskStore struct {
	root               string
	maxUploadSizeBytes int64
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string, maxUploadSizeMB int) *DiskStore {
	return &DiskStore{
		root:               dir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Store validates, re-encodes and persists an uploaded image, generating its
// thumbnail alongside.
func (s *DiskStore) Store(ctx context.Context, upload Upload) (*StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(upload.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(upload.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(upload.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(upload.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)
	encoded, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := Folder + "/" + uuid.NewString() + ".jpg"
	fullPath := filepath.Join(s.root, filepath.FromSlash(name))
	written := []string{fullPath}
	if err := writeBytesToFile(fullPath, encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	thumb := resizeToWidth(master, ThumbnailWidth)
	thumbBytes, err := encodeWebP(thumb, WebPQuality)
	if err == nil {
		thumbPath := filepath.Join(s.root, ThumbnailSegment, filepath.FromSlash(ThumbnailName(name)))
		if writeErr := writeBytesToFile(thumbPath, thumbBytes); writeErr != nil {
			cleanupFiles(written)
			return nil, models.NewInternalError(writeErr)
		}
	} else {
		cleanupFiles(written)
		return nil, models.NewInternalError(err)
	}

	return &StoredImage{
		URL:      "/upload/" + name,
		Filename: name,
	}, nil
}

// Delete removes the image and its thumbnail. Missing files are not an error
// so deletes stay idempotent.
func (s *DiskStore) Delete(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := safeRelPath(filename)
	if err != nil {
		return err
	}
	if err := removeIfExists(filepath.Join(s.root, rel)); err != nil {
		return err
	}
	thumbRel, err := safeRelPath(ThumbnailName(filename))
	if err != nil {
		return err
	}
	return removeIfExists(filepath.Join(s.root, ThumbnailSegment, thumbRel))
}

// ThumbnailName maps a stored filename to its thumbnail's filename.
// Thumbnails are WebP regardless of the master's encoding.
func ThumbnailName(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename)) + ".webp"
}

// Resolve maps a requested URL path (relative to /upload/) to a file on disk.
// Used by the handler that serves stored images.
func (s *DiskStore) Resolve(requestPath string) (string, error) {
	rel, err := safeRelPath(requestPath)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.root, rel)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Image", requestPath)
		}
		return "", models.NewInternalError(err)
	}
	return full, nil
}

// safeRelPath rejects paths that would escape the upload root.
func safeRelPath(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", models.NewValidationError("Invalid file path")
	}
	return cleaned, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	return scaleTo(src, int(float64(w)*scale), int(float64(h)*scale))
}

func resizeToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || w <= width {
		return src
	}
	scale := float64(width) / float64(w)
	return scaleTo(src, width, int(float64(h)*scale))
}

func scaleTo(src image.Image, newW, newH int) image.Image {
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cleanupFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
