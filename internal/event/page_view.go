package event

import (
	"mixpanel-tracker/internal/property"
	"time"
)

const PageViewName = "Page View"

type PageViewEvent struct {
	PageID       string    `json:"page_id"`
	UserID       string    `json:"user_id"`
	ViewDuration int       `json:"view_duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
	UserAgent    string    `json:"user_agent,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	Region       string    `json:"region,omitempty"`
	IsBounce     bool      `json:"is_bounce"`
}

// ToTrackedEvent раскладывает просмотр страницы в свойства с именами полей.
// UserID уходит в distinct_id, Timestamp в time, пустые строки опускаются.
func (e PageViewEvent) ToTrackedEvent() (string, *property.Properties) {
	props := property.New().
		Set("distinct_id", property.String(e.UserID)).
		Set("PageID", property.String(e.PageID)).
		Set("ViewDuration", property.Int(e.ViewDuration)).
		Set("IsBounce", property.Bool(e.IsBounce))

	if e.UserAgent != "" {
		props.Set("UserAgent", property.String(e.UserAgent))
	}
	if e.IPAddress != "" {
		props.Set("ip", property.String(e.IPAddress))
	}
	if e.Region != "" {
		props.Set("Region", property.String(e.Region))
	}
	if !e.Timestamp.IsZero() {
		props.Set(property.TimeKey, property.Date(e.Timestamp))
	}

	return PageViewName, props
}
