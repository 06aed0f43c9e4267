package files

import (
	"bytes"
	"errors"

	pdf "rsc.io/pdf"
)

// ExtractNotes opens a PDF (a brochure, booking confirmation or the
// traveler's own notes) and returns its text layer up to maxChars, to be
// attached to a generation request as additional notes. If maxChars <= 0 a
// default cap is applied so the prompt context stays bounded.
func ExtractNotes(filePath string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = 8000
	}

	r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	total := r.NumPage()
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			buf.WriteString(t.S)
		}
		buf.WriteString("\n\n")
		if buf.Len() >= maxChars {
			break
		}
	}
	if buf.Len() == 0 {
		// Scanned PDFs have no text layer; nothing useful to attach.
		return "", errors.New("no extractable text in pdf")
	}
	out := buf.String()
	if len(out) > maxChars {
		out = out[:maxChars]
	}
	return out, nil
}
