package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	signatureImageName = "firma"
	signatureMaxWidth  = 120.0
	signatureMaxHeight = 60.0
	signatureTop       = 40.0
)

// SignatureImage is a decoded-format signature ready to embed.
type SignatureImage struct {
	Data []byte
	Type string
}

// NewSignatureImage accepts PNG and JPEG signatures identified by MIME type.
func NewSignatureImage(data []byte, mimeType string) (*SignatureImage, error) {
	switch mimeType {
	case "image/png":
		return &SignatureImage{Data: data, Type: "PNG"}, nil
	case "image/jpeg", "image/jpg":
		return &SignatureImage{Data: data, Type: "JPG"}, nil
	default:
		return nil, fmt.Errorf("unsupported signature type %q", mimeType)
	}
}

// Render produces the PDF for s. When sig is not nil a second page carries the signature.
func Render(s Snapshot, sig *SignatureImage) ([]byte, error) {
	layout := BuildLayout(s, sig != nil)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(s.Albaran.CreatedAt)
	pdf.SetCatalogSort(true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(layout.Title), false)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(layout.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeFields(pdf, tr, layout.Meta)
	pdf.Ln(4)
	writeHeading(pdf, tr, "Cliente")
	writeFields(pdf, tr, layout.Client)
	pdf.Ln(4)

	writeHeading(pdf, tr, "Concepto")
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range layout.Items {
		pdf.CellFormat(0, 7, tr(item.String()), "B", 1, "L", false, 0, "")
	}

	if sig != nil {
		if err := writeSignature(pdf, tr, sig, layout.Signature); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
}

func writeFields(pdf *fpdf.Fpdf, tr func(string) string, fields []Field) {
	for _, f := range fields {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, tr(f.Label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(f.Value), "", "L", false)
	}
}

func writeSignature(pdf *fpdf.Fpdf, tr func(string) string, sig *SignatureImage, caption string) error {
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: sig.Type}
	info := pdf.RegisterImageOptionsReader(signatureImageName, opts, bytes.NewReader(sig.Data))
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to load signature image: %w", err)
	}

	w, h := fitBox(info.Width(), info.Height(), signatureMaxWidth, signatureMaxHeight)
	pageWidth, _ := pdf.GetPageSize()
	pdf.ImageOptions(signatureImageName, (pageWidth-w)/2, signatureTop, w, h, false, opts, 0, "")

	pdf.SetY(signatureTop + h + 6)
	pdf.SetFont("Helvetica", "I", 12)
	pdf.CellFormat(0, 8, tr(caption), "", 1, "C", false, 0, "")
	return pdf.Error()
}

// fitBox scales w x h down (never up) to fit inside maxW x maxH, keeping the aspect ratio.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := 1.0
	if sw := maxW / w; sw < scale {
		scale = sw
	}
	if sh := maxH / h; sh < scale {
		scale = sh
	}
	return w * scale, h * scale
}
