package utils

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// BotLinkQR генерирует PNG с QR-кодом ссылки на бота.
func BotLinkQR(botUsername string) ([]byte, error) {
	png, err := qrcode.Encode("https://t.me/"+botUsername, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
