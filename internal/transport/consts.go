package transport

import "time"

const (
	DefaultTimeout = 10 * time.Second

	// maxResponseSize ограничивает чтение тела ответа; сервис отвечает "1" или "0".
	maxResponseSize = 64 * 1024

	contentTypeForm = "application/x-www-form-urlencoded"
)
