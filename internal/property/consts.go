package property

const (
	// формат дат, который ожидает сервис трекинга
	DateLayout = "2006-01-02T15:04:05"

	TokenKey = "token"
	TimeKey  = "time"
)
