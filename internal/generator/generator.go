package generator

import (
	"context"
	"crypto/rand"
	mrand "math/rand"
	"mixpanel-tracker/internal/event"
	"net"
	"time"

	"github.com/google/uuid"
)

const (
	defaultDurationMax = 30_000
	defaultBounceRate  = 0.3
	defaultUserCount   = 100

	bounceMax = 5_000
)

var (
	agents = [...]string{
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		"Mozilla/5.0 (Linux; Android 14)",
	}
	regions = [...]string{
		"EU",
		"US",
		"APAC",
		"LATAM",
	}
)

// EventGenerator создает синтетические просмотры страниц.
// Пользователи берутся из фиксированного пула, чтобы distinct_id повторялись.
type EventGenerator struct {
	DurationMax int
	BounceRate  float32

	users []string
	now   func() time.Time
}

func NewEventGenerator() *EventGenerator {
	g := &EventGenerator{
		DurationMax: defaultDurationMax,
		BounceRate:  defaultBounceRate,
		now:         time.Now,
	}
	g.SetUserCount(defaultUserCount)

	return g
}

func (g *EventGenerator) SetDurationMax(value int) *EventGenerator {
	g.DurationMax = value
	return g
}

func (g *EventGenerator) SetBounceRate(value float32) *EventGenerator {
	g.BounceRate = value
	return g
}

// SetUserCount пересоздает пул пользователей; значения меньше 1 превращаются в 1.
func (g *EventGenerator) SetUserCount(count int) *EventGenerator {
	count = max(count, 1)

	g.users = make([]string, count)
	for i := range g.users {
		g.users[i] = uuid.NewString()
	}

	return g
}

func (g *EventGenerator) Event() event.PageViewEvent {
	var isBounce bool

	duration := mrand.Intn(max(g.DurationMax, 1)) + 1

	if duration < bounceMax {
		isBounce = false
	} else {
		isBounce = mrand.Float32() < g.BounceRate
	}

	return event.PageViewEvent{
		PageID:       uuid.NewString(),
		UserID:       g.users[mrand.Intn(len(g.users))],
		ViewDuration: duration,
		Timestamp:    g.now().UTC(),
		UserAgent:    g.randomUserAgent(),
		IPAddress:    g.randomIPv4(),
		Region:       g.randomRegion(),
		IsBounce:     isBounce,
	}
}

// Events отдает count событий и закрывает канал.
// Генерация прекращается раньше при отмене контекста.
func (g *EventGenerator) Events(ctx context.Context, count int) <-chan event.PageViewEvent {
	ch := make(chan event.PageViewEvent)

	go func() {
		defer close(ch)

		for range count {
			if ctx.Err() != nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case ch <- g.Event():
			}
		}
	}()

	return ch
}

func (g *EventGenerator) randomUserAgent() string {
	return agents[mrand.Intn(len(agents))]
}

func (g *EventGenerator) randomRegion() string {
	return regions[mrand.Intn(len(regions))]
}

func (g *EventGenerator) randomIPv4() string {
	ip := make(net.IP, 4)
	_, _ = rand.Read(ip)
	return ip.String()
}
