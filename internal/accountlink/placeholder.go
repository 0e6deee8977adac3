package accountlink

import (
	"fmt"
	"time"

	"lowvie/internal/upload"
)

// PlaceholderReceipt is a minimal PDF standing in for a linked account's
// transactions, so demo mode can reuse the upload analysis workflow.
func PlaceholderReceipt(externalUserID string, now time.Time) upload.File {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (Linked account %s, %s) Tj ET", externalUserID, now.Format("2006-01-02"))

	pdf := "%PDF-1.4\n" +
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n" +
		"2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj\n" +
		"3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >> endobj\n" +
		fmt.Sprintf("4 0 obj << /Length %d >> stream\n%s\nendstream endobj\n", len(content), content) +
		"trailer << /Root 1 0 R >>\n%%EOF\n"

	return upload.File{
		Name:        fmt.Sprintf("linked-%s-%s.pdf", externalUserID, now.Format("20060102")),
		ContentType: "application/pdf",
		Data:        []byte(pdf),
	}
}
