package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << /Root 1 0 R >>\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	txtBytes = []byte("just some notes, not a receipt")
)

func recordingWidget(policy Policy) (*Widget, *[]File) {
	var got []File
	w := NewWidget(policy, func(f File) error {
		got = append(got, f)
		return nil
	}, zap.NewNop())
	return w, &got
}

func TestWidgetSelect(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		files    []File
		wantErr  error
		wantMIME string
	}{
		{
			name:     "pdf accepted",
			policy:   PolicyPDFAndImages,
			files:    []File{{Name: "receipt.pdf", Data: pdfBytes}},
			wantMIME: "application/pdf",
		},
		{
			name:     "png accepted",
			policy:   PolicyPDFAndImages,
			files:    []File{{Name: "receipt.png", Data: pngBytes}},
			wantMIME: "image/png",
		},
		{
			name:     "declared type is ignored",
			policy:   PolicyPDFAndImages,
			files:    []File{{Name: "receipt.txt", ContentType: "text/plain", Data: pdfBytes}},
			wantMIME: "application/pdf",
		},
		{
			name:    "no files",
			policy:  PolicyPDFAndImages,
			files:   nil,
			wantErr: ErrNoFile,
		},
		{
			name:    "empty file",
			policy:  PolicyPDFAndImages,
			files:   []File{{Name: "empty.pdf"}},
			wantErr: ErrNoFile,
		},
		{
			name:    "two files",
			policy:  PolicyPDFAndImages,
			files:   []File{{Name: "a.pdf", Data: pdfBytes}, {Name: "b.pdf", Data: pdfBytes}},
			wantErr: ErrTooManyFiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, got := recordingWidget(tt.policy)

			err := w.Select(tt.files)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, *got)
				return
			}
			require.NoError(t, err)
			require.Len(t, *got, 1)
			assert.Equal(t, tt.wantMIME, (*got)[0].ContentType)
			assert.Equal(t, tt.files[0].Name, (*got)[0].Name)
		})
	}
}

func TestWidgetRejectsUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		data   []byte
	}{
		{name: "text file", policy: PolicyPDFAndImages, data: txtBytes},
		{name: "image under pdf-only policy", policy: PolicyPDFOnly, data: pngBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, got := recordingWidget(tt.policy)

			err := w.Select([]File{{Name: "upload", Data: tt.data}})

			var unsupported *UnsupportedTypeError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, tt.policy, unsupported.Policy)
			assert.Empty(t, *got)
		})
	}
}

func TestWidgetPropagatesCallbackError(t *testing.T) {
	busy := errors.New("busy")
	calls := 0
	w := NewWidget(PolicyPDFAndImages, func(File) error {
		calls++
		return busy
	}, zap.NewNop())

	err := w.Select([]File{{Name: "receipt.pdf", Data: pdfBytes}})

	assert.ErrorIs(t, err, busy)
	assert.Equal(t, 1, calls)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyPDFOnly, ParsePolicy("pdf_only"))
	assert.Equal(t, PolicyPDFAndImages, ParsePolicy("pdf_images"))
	assert.Equal(t, PolicyPDFAndImages, ParsePolicy(""))
	assert.Equal(t, []string{"application/pdf"}, PolicyPDFOnly.Allowed())
	assert.Contains(t, PolicyPDFAndImages.Allowed(), "image/heic")
}

func TestFromMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "receipt.pdf")
	require.NoError(t, err)
	_, err = part.Write(pdfBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files, err := FromMultipart(req.MultipartForm.File["file"])
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "receipt.pdf", files[0].Name)
	assert.Equal(t, pdfBytes, files[0].Data)
}
