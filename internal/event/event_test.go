package event

import (
	"mixpanel-tracker/internal/property"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_WithPropDoesNotMutateOriginal(t *testing.T) {
	base := New("Signup").WithProp("plan", property.String("free"))
	derived := base.WithProp("plan", property.String("pro"))

	v, _ := base.Properties.Get("plan")
	assert.Equal(t, property.String("free"), v)

	v, _ = derived.Properties.Get("plan")
	assert.Equal(t, property.String("pro"), v)
}

func TestEvent_ToTrackedEvent(t *testing.T) {
	ev := New("Signup").WithProp("plan", property.String("pro"))

	name, props := ev.ToTrackedEvent()

	assert.Equal(t, "Signup", name)
	assert.Equal(t, 1, props.Len())
}

func TestPageViewEvent_ToTrackedEvent(t *testing.T) {
	ts := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	ev := PageViewEvent{
		PageID:       "page_1",
		UserID:       "user_1",
		ViewDuration: 1000,
		Timestamp:    ts,
		Region:       "EU",
	}

	name, props := ev.ToTrackedEvent()

	assert.Equal(t, PageViewName, name)
	assert.Equal(t,
		[]string{"distinct_id", "PageID", "ViewDuration", "IsBounce", "Region", "time"},
		props.Keys(),
	)

	v, _ := props.Get("time")
	assert.Equal(t, property.Date(ts), v)
}
