package transport

import "strings"

const (
	DefaultBaseURL = "https://api.mixpanel.com"

	trackPath = "/track"
)

// Track возвращает адрес ресурса track.
// Если задан proxyURL, он используется вместо адреса сервиса по умолчанию.
func Track(proxyURL string) string {
	base := DefaultBaseURL
	if proxyURL != "" {
		base = proxyURL
	}

	return strings.TrimRight(base, "/") + trackPath
}
