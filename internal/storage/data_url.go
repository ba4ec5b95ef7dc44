package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"
)

// Recognized encoded-image envelope: data:image/<type>;base64,<payload>
var dataURLPattern = regexp.MustCompile(`^data:image/(jpeg|png|gif|webp);base64,([A-Za-z0-9+/]+={0,2})$`)

var (
	// ErrInvalidEnvelope indicates the payload is not a recognized image data URL
	ErrInvalidEnvelope = errors.New("not a recognized image data URL")

	// ErrDecodeFailed indicates the payload could not be decoded into pixels
	ErrDecodeFailed = errors.New("image payload could not be decoded")
)

// DecodedImage is the result of decoding a data-URL payload.
type DecodedImage struct {
	Image  image.Image
	Bytes  []byte
	MIME   string
	Format string
}

// ValidateDataURL checks the encoded-image envelope without decoding pixels.
func ValidateDataURL(s string) error {
	if !dataURLPattern.MatchString(s) {
		return ErrInvalidEnvelope
	}
	return nil
}

// ParseDataURL splits a data URL into its MIME type and raw image bytes.
func ParseDataURL(s string) (mime string, payload []byte, err error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return "", nil, ErrInvalidEnvelope
	}
	payload, err = base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return "image/" + m[1], payload, nil
}

// DecodeDataURL parses and decodes a data URL into pixels. WebP payloads
// that the registered decoder rejects get one more chance via the explicit
// webp decoder.
func DecodeDataURL(s string) (*DecodedImage, error) {
	mime, payload, err := ParseDataURL(s)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		if strings.HasSuffix(mime, "webp") {
			if wimg, werr := webp.Decode(bytes.NewReader(payload)); werr == nil {
				return &DecodedImage{Image: wimg, Bytes: payload, MIME: mime, Format: "webp"}, nil
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return &DecodedImage{Image: img, Bytes: payload, MIME: mime, Format: format}, nil
}

// EncodeDataURL builds a data URL from raw image bytes.
func EncodeDataURL(mime string, payload []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(payload))
}
