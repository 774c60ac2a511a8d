package receipt

import (
	"context"
	"errors"
	"testing"
)

var (
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

func TestScanDebugReturnsSample(t *testing.T) {
	s := Scanner{Debug: true}
	for _, image := range [][]byte{jpegHeader, pngHeader} {
		items, err := s.Scan(context.Background(), image)
		if err != nil {
			t.Fatalf("Scan returned error: %v", err)
		}
		if len(items) != len(Sample()) {
			t.Errorf("Scan returned %d items, want %d", len(items), len(Sample()))
		}
	}
}

func TestScanRejectsNonImages(t *testing.T) {
	s := Scanner{Debug: true}
	_, err := s.Scan(context.Background(), []byte("%PDF-1.4 not an image"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scanner{}.Scan(ctx, jpegHeader)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
