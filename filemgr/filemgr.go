package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// Media files uploaded with a memory. One shared allow-list drives both
// server-side validation and client-side rendering decisions.
const MaxUploadSize = 10 << 20 // 10MB per file

var (
	ImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}
	VideoExtensions = []string{".mp4", ".mov", ".mkv", ".avi"}

	allowedMIMEs = map[string]bool{
		"image/png":                true,
		"image/jpeg":               true,
		"image/webp":               true,
		"image/gif":                true,
		"video/mp4":                true,
		"video/quicktime":          true,
		"video/x-matroska":         true,
		"video/x-msvideo":          true,
		"application/octet-stream": true, // sniffing gives up on most video containers
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// UploadDir is where memory media lands, served under /static/uploads.
var UploadDir = filepath.Join("static", "uploads")

func IsImage(name string) bool {
	return extIn(strings.ToLower(filepath.Ext(name)), ImageExtensions)
}

func IsVideo(name string) bool {
	return extIn(strings.ToLower(filepath.Ext(name)), VideoExtensions)
}

func extAllowed(ext string) bool {
	return extIn(ext, ImageExtensions) || extIn(ext, VideoExtensions)
}

func extIn(ext string, list []string) bool {
	for _, a := range list {
		if ext == a {
			return true
		}
	}
	return false
}

// SaveMemoryFile validates and stores one uploaded media file, returning the
// server-relative URL. Images are re-encoded (dropping EXIF) and get a
// thumbnail; videos are stored as-is.
func SaveMemoryFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extAllowed(ext) {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}
	if header.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	buf, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	sniffed := http.DetectContentType(buf[:min(len(buf), 512)])
	if !allowedMIMEs[sniffed] {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, sniffed)
	}

	filename := uuid.New().String() + ext

	if extIn(ext, ImageExtensions) {
		if img, _, err := image.Decode(bytes.NewReader(buf)); err == nil {
			if ext == ".jpg" || ext == ".jpeg" {
				if stripped, err := reencodeJPEG(img); err == nil {
					buf = stripped
				}
			}
			_ = writeThumbnail(img, filename)
		}
	}

	if err := writeFile(filepath.Join(UploadDir, filename), buf); err != nil {
		return "", err
	}
	return "/static/uploads/" + filename, nil
}

// ThumbURL maps a stored media URL to its thumbnail URL. Thumbnails are
// always JPEG regardless of the original format.
func ThumbURL(mediaURL string) string {
	name := filepath.Base(mediaURL)
	return "/static/uploads/thumb/" + strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
}

// Remove deletes a stored media file (and its thumbnail, if any) given the
// server-relative URL recorded on the memory.
func Remove(mediaURL string) error {
	name := filepath.Base(mediaURL)
	if name == "." || name == "/" {
		return nil
	}
	thumb := strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	os.Remove(filepath.Join(UploadDir, "thumb", thumb))
	return os.Remove(filepath.Join(UploadDir, name))
}

func reencodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeThumbnail(img image.Image, baseFilename string) error {
	resized := imaging.Resize(img, 200, 0, imaging.Lanczos) // maintain aspect ratio
	name := strings.TrimSuffix(baseFilename, filepath.Ext(baseFilename)) + ".jpg"
	path := filepath.Join(UploadDir, "thumb", name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()
	return jpeg.Encode(out, resized, &jpeg.Options{Quality: 85})
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
