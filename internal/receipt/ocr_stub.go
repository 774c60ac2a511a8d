//go:build !ocr

package receipt

// Recognizer is a stub that fails every operation.
type Recognizer struct{}

func NewRecognizer(language string) (*Recognizer, error) {
	return nil, ErrOCRNotEnabled
}

// Close is safe to call on a nil Recognizer.
func (r *Recognizer) Close() error {
	return nil
}

func (r *Recognizer) RecognizeImage(image []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
