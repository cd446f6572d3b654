package property

import "time"

// Formatter приводит свойства события к виду, пригодному для отправки.
type Formatter struct {
	Token        string
	SetEventTime bool
	// Literal отключает Humanize для ключей.
	Literal bool
	// Now используется для подстановки времени; по умолчанию time.Now.
	Now func() time.Time
}

// Format возвращает новый набор свойств:
//   - ключи верхнего уровня проходят через Humanize, если Literal выключен;
//     при совпадении ключей после Humanize побеждает последний, позиция остается от первого;
//   - token всегда перезаписывается токеном трекера;
//   - time добавляется в UTC, если включен SetEventTime и во входных свойствах
//     нет ключа time в любом регистре.
//
// Входной набор не изменяется.
func (f Formatter) Format(props *Properties) *Properties {
	out := New()

	props.Range(func(key string, value Value) bool {
		if !f.Literal {
			key = Humanize(key)
		}
		out.Set(key, cloneValue(value))
		return true
	})

	out.Set(TokenKey, String(f.Token))

	if f.SetEventTime && !props.HasFold(TimeKey) {
		out.Set(TimeKey, Date(f.now().UTC()))
	}

	return out
}

func (f Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
