package filemgr

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func upload(name string, data []byte) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(data)}, &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(data)),
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func useTempUploadDir(t *testing.T) {
	t.Helper()
	old := UploadDir
	UploadDir = t.TempDir()
	t.Cleanup(func() { UploadDir = old })
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	useTempUploadDir(t)
	file, header := upload("notas.txt", []byte("texto"))
	if _, err := SaveMemoryFile(file, header); !errors.Is(err, ErrInvalidExtension) {
		t.Fatalf("err = %v, want ErrInvalidExtension", err)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	useTempUploadDir(t)
	file, header := upload("grande.jpg", []byte("x"))
	header.Size = MaxUploadSize + 1
	if _, err := SaveMemoryFile(file, header); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestSaveRejectsMismatchedContent(t *testing.T) {
	useTempUploadDir(t)
	file, header := upload("falso.png", []byte("<html><body>não é imagem</body></html>"))
	if _, err := SaveMemoryFile(file, header); !errors.Is(err, ErrInvalidMIME) {
		t.Fatalf("err = %v, want ErrInvalidMIME", err)
	}
}

func TestSaveImageWritesFileAndThumbnail(t *testing.T) {
	useTempUploadDir(t)
	file, header := upload("foto.png", pngBytes(t))

	url, err := SaveMemoryFile(file, header)
	if err != nil {
		t.Fatalf("SaveMemoryFile: %v", err)
	}
	if !strings.HasPrefix(url, "/static/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	name := filepath.Base(url)
	if _, err := os.Stat(filepath.Join(UploadDir, name)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	thumb := strings.TrimSuffix(name, ".png") + ".jpg"
	if _, err := os.Stat(filepath.Join(UploadDir, "thumb", thumb)); err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
}

func TestRemoveDeletesFileAndThumbnail(t *testing.T) {
	useTempUploadDir(t)
	file, header := upload("foto.png", pngBytes(t))
	url, err := SaveMemoryFile(file, header)
	if err != nil {
		t.Fatalf("SaveMemoryFile: %v", err)
	}

	if err := Remove(url); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(UploadDir, filepath.Base(url))); !os.IsNotExist(err) {
		t.Fatal("file still present after Remove")
	}
}

func TestExtensionClassification(t *testing.T) {
	if !IsImage("a.JPG") || !IsImage("b.webp") {
		t.Fatal("image extensions not recognized")
	}
	if !IsVideo("c.mp4") || IsVideo("d.png") {
		t.Fatal("video classification wrong")
	}
	if IsImage("e.txt") || IsVideo("e.txt") {
		t.Fatal("unknown extension classified")
	}
}

func TestThumbURL(t *testing.T) {
	if got := ThumbURL("/static/uploads/abc.webp"); got != "/static/uploads/thumb/abc.jpg" {
		t.Fatalf("ThumbURL = %q", got)
	}
}
