//go:build ocr

package receipt

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer wraps a Tesseract client. Close it when done.
type Recognizer struct {
	client *gosseract.Client
}

// NewRecognizer creates a Tesseract client for language, e.g. "eng" or
// "eng+deu".
func NewRecognizer(language string) (*Recognizer, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(strings.Split(language, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set OCR language: %w", err)
		}
	}
	// receipts are a single column of lines
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_COLUMN); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return &Recognizer{client: client}, nil
}

func (r *Recognizer) Close() error {
	if r != nil && r.client != nil {
		return r.client.Close()
	}
	return nil
}

// RecognizeImage returns the text on a JPEG or PNG image.
func (r *Recognizer) RecognizeImage(image []byte) (string, error) {
	if err := r.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
