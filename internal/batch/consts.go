package batch

// MaxSize — предел сервиса на количество событий в одном запросе.
const MaxSize = 50
