// Package intake validates uploaded menu photos and stages them on disk.
package intake

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

const defaultExtension = ".jpg"

// MaxPixels caps width*height so that decoding an upload stays bounded.
const MaxPixels = 50_000_000

// SupportedFormats lists the accepted file extensions, without the dot.
var SupportedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"jpg":  true,
	"webp": true,
}

// ValidationError is returned when an upload is rejected. Its message is
// safe to show to the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(format string, a ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, a...)}
}

// Validate checks an uploaded file against the size ceiling, the extension
// whitelist and decodability.
func Validate(content []byte, filename string, maxBytes int64) error {
	if filename == "" {
		return invalid("Filename cannot be empty")
	}

	if len(content) == 0 {
		return invalid("File is empty")
	}

	if int64(len(content)) > maxBytes {
		return invalid("File size (%.2fMB) exceeds maximum of %gMB",
			float64(len(content))/(1024*1024), float64(maxBytes)/(1024*1024))
	}

	ext := extension(filename)
	if !SupportedFormats[ext] {
		return invalid("Unsupported file format: %s. Supported formats: %s", ext, supportedList())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return invalid("Invalid image file '%s': %v", filename, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return invalid("Invalid image file '%s': empty dimensions", filename)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return invalid("Image dimensions too large: %dx%d exceeds maximum of %d pixels",
			cfg.Width, cfg.Height, MaxPixels)
	}

	if _, _, err := image.Decode(bytes.NewReader(content)); err != nil {
		return invalid("Invalid image file '%s': %v", filename, err)
	}

	log.Info().Str("filename", filename).Msg("image validation passed")
	return nil
}

// Save validates the upload and writes it to a uniquely named file in dir
// (os.TempDir when empty), keeping the original extension. The caller owns
// the returned file and must remove it.
func Save(dir string, content []byte, filename string, maxBytes int64) (string, error) {
	if err := Validate(content, filename, maxBytes); err != nil {
		return "", err
	}

	suffix := filepath.Ext(filename)
	if suffix == "" {
		suffix = defaultExtension
	}

	f, err := os.CreateTemp(dir, "menu-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	log.Info().Str("path", f.Name()).Msg("saved uploaded image")
	return f.Name(), nil
}

// MIMEType returns the image MIME type implied by the file extension.
func MIMEType(path string) string {
	switch extension(path) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

func supportedList() string {
	formats := make([]string, 0, len(SupportedFormats))
	for f := range SupportedFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return strings.Join(formats, ", ")
}
