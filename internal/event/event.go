package event

import "mixpanel-tracker/internal/property"

// Tracked реализуют события, которые сами знают свое имя и свойства.
// Заменяет reflection-конвертацию произвольных структур.
type Tracked interface {
	ToTrackedEvent() (string, *property.Properties)
}

// Event описывает событие в общем виде: имя и набор свойств.
type Event struct {
	Name       string
	Properties *property.Properties
}

func New(name string) Event {
	return Event{
		Name:       name,
		Properties: property.New(),
	}
}

// WithProp возвращает копию события с добавленным свойством.
func (e Event) WithProp(key string, value property.Value) Event {
	e.Properties = e.Properties.Clone().Set(key, value)
	return e
}

func (e Event) ToTrackedEvent() (string, *property.Properties) {
	return e.Name, e.Properties
}

// Record хранит подготовленную к кодированию запись:
// имя события и отформатированные свойства с token/time.
type Record struct {
	Event      string               `json:"event"`
	Properties *property.Properties `json:"properties"`
}
