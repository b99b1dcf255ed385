package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// EncodePNGBase64 renders data as a low error-correction QR code and returns
// the PNG bytes base64 encoded, ready to embed in a JSON response.
func EncodePNGBase64(data string) (string, error) {
	png, err := goqrcode.Encode(data, goqrcode.Low, defaultSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
