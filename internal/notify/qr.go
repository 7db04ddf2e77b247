package notify

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// MemberQRFilename is the file name of a member's badge image.
func MemberQRFilename(memberID uint32) string {
	return fmt.Sprintf("qr_%d.png", memberID)
}

// RenderQR encodes content as a size x size PNG at medium error correction,
// which the scan loop decodes reliably from a phone screen or a printout.
func RenderQR(content string, size int) ([]byte, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

// WriteQR renders content into dir/filename and returns the full path.
func WriteQR(dir, filename, content string, size int) (string, error) {
	png, err := RenderQR(content, size)
	if err != nil {
		return "", err
	}
	return savePNG(dir, filename, png)
}

func savePNG(dir, filename string, png []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create qr dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write qr: %w", err)
	}
	return path, nil
}
