package transport

import "context"

// Transport — синхронная отправка payload в сервис трекинга.
// Возвращает тело ответа как есть; ошибки ввода-вывода и не-2xx ответы
// возвращаются ошибкой.
type Transport interface {
	Get(ctx context.Context, url string, query string) (string, error)
	Post(ctx context.Context, url string, body string) (string, error)
}
