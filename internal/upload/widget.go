// Package upload implements the receipt upload widget: one file, PDF or image,
// handed to the parent through a callback.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

var (
	ErrNoFile       = errors.New("no file selected")
	ErrTooManyFiles = errors.New("only one file can be uploaded at a time")
)

// UnsupportedTypeError reports a file whose sniffed type the policy rejects.
type UnsupportedTypeError struct {
	FileName string
	MIME     string
	Policy   Policy
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %s for %q (accepted: %s)", e.MIME, e.FileName, e.Policy.Describe())
}

type Policy string

const (
	PolicyPDFAndImages Policy = "pdf_images"
	PolicyPDFOnly      Policy = "pdf_only"
)

var imageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif", "image/heic"}

// ParsePolicy maps a config value to a policy, defaulting to PDF and images.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyPDFOnly {
		return PolicyPDFOnly
	}
	return PolicyPDFAndImages
}

// Allowed lists the MIME types a policy accepts.
func (p Policy) Allowed() []string {
	if p == PolicyPDFOnly {
		return []string{"application/pdf"}
	}
	return append([]string{"application/pdf"}, imageTypes...)
}

// Accept is the value for the file input's accept attribute.
func (p Policy) Accept() string {
	if p == PolicyPDFOnly {
		return ".pdf,application/pdf"
	}
	return ".pdf,application/pdf,image/*"
}

func (p Policy) Describe() string {
	if p == PolicyPDFOnly {
		return "PDF"
	}
	return "PDF, PNG, JPEG, WebP, GIF, HEIC"
}

// File is a selected receipt held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int {
	return len(f.Data)
}

// Widget validates a selection and forwards it to OnFileUpload.
// It performs no network I/O of its own.
type Widget struct {
	policy       Policy
	onFileUpload func(File) error
	logger       *zap.Logger
}

func NewWidget(policy Policy, onFileUpload func(File) error, logger *zap.Logger) *Widget {
	return &Widget{
		policy:       policy,
		onFileUpload: onFileUpload,
		logger:       logger,
	}
}

func (w *Widget) Policy() Policy {
	return w.policy
}

// Select validates count and type, then invokes the callback exactly once.
// The content type is taken from the bytes, not from what the browser declared.
func (w *Widget) Select(files []File) error {
	switch {
	case len(files) == 0:
		return ErrNoFile
	case len(files) > 1:
		w.logger.Warn("Rejected multi-file selection", zap.Int("count", len(files)))
		return ErrTooManyFiles
	}

	file := files[0]
	if len(file.Data) == 0 {
		return ErrNoFile
	}

	detected := mimetype.Detect(file.Data)
	if !mimetype.EqualsAny(detected.String(), w.policy.Allowed()...) {
		w.logger.Warn("Rejected file type",
			zap.String("file", file.Name),
			zap.String("mime", detected.String()),
		)
		return &UnsupportedTypeError{FileName: file.Name, MIME: detected.String(), Policy: w.policy}
	}
	file.ContentType = detected.String()

	w.logger.Info("File selected",
		zap.String("file", file.Name),
		zap.String("mime", file.ContentType),
		zap.Int("size", file.Size()),
	)

	return w.onFileUpload(file)
}

// FromMultipart reads form files into memory.
func FromMultipart(headers []*multipart.FileHeader) ([]File, error) {
	files := make([]File, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		files = append(files, File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
