package uploader

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// WriteQR saves a scannable PNG of the watch URL next to the output,
// handy for checking the upload from a phone.
func WriteQR(videoURL, path string) error {
	if videoURL == "" {
		return fmt.Errorf("empty video url")
	}
	return qrcode.WriteFile(videoURL, qrcode.Medium, 256, path)
}
