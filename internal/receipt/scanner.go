package receipt

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Scanner reads bill items off receipt images.
type Scanner struct {
	Debug    bool
	Language string
}

// Scan recognises the items on image. In debug mode the image is only
// checked for its type and the sample receipt is returned.
func (s Scanner) Scan(ctx context.Context, image []byte) ([]Item, error) {
	contentType := http.DetectContentType(image)
	if contentType != "image/jpeg" && contentType != "image/png" {
		log.Debug().Str("content_type", contentType).Msg("Rejecting receipt upload")
		return nil, ErrUnsupportedImage
	}

	if s.Debug {
		log.Debug().Msg("Debug mode, using sample receipt")
		return Sample(), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := NewRecognizer(s.Language)
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	text, err := rec.RecognizeImage(image)
	if err != nil {
		return nil, err
	}

	items := ParseText(text)
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	log.Info().
		Int("items", len(items)).
		Int("bytes", len(image)).
		Msg("Recognised receipt")
	return items, nil
}
