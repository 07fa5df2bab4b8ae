// Package render declares the document rendering contracts the HTTP layer
// depends on. The demo deployment ships without an implementation; endpoints
// backed by these interfaces answer 503 until one is wired in.
package render

import (
	"context"

	"certchain.org/internal/cert"
)

// Renderer produces a printable certificate document.
type Renderer interface {
	// RenderPDF renders the certificate using its template and returns the
	// document bytes and content type.
	RenderPDF(ctx context.Context, c cert.Certificate) ([]byte, string, error)
}

// QREncoder produces a QR code image pointing at a verification URL.
type QREncoder interface {
	// Encode returns image bytes and content type for the given URL.
	Encode(ctx context.Context, url string, sizePx int) ([]byte, string, error)
}
