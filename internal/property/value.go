package property

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

type Kind string

const (
	StringKind Kind = "string"
	IntKind    Kind = "int"
	FloatKind  Kind = "float"
	BoolKind   Kind = "bool"
	DateKind   Kind = "date"
	MapKind    Kind = "map"
)

// Value — значение свойства события.
// Набор реализаций закрыт: String, Int, Float, Bool, Date и *Properties.
type Value interface {
	json.Marshaler
	Kind() Kind
	isValue()
}

type (
	String string
	Int    int64
	Float  float64
	Bool   bool
	Date   time.Time
)

func (String) Kind() Kind { return StringKind }
func (Int) Kind() Kind    { return IntKind }
func (Float) Kind() Kind  { return FloatKind }
func (Bool) Kind() Kind   { return BoolKind }
func (Date) Kind() Kind   { return DateKind }

func (String) isValue() {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Bool) isValue()   {}
func (Date) isValue()   {}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (i Int) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(i), 10), nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, float64(f))
	}
	return json.Marshal(float64(f))
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(b)), nil
}

// MarshalJSON сериализует дату в UTC в формате DateLayout.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Date) String() string {
	return time.Time(d).UTC().Format(DateLayout)
}

// ValueOf приводит произвольное значение к Value.
// Поддерживаются строки, числа, bool, time.Time, json.Number,
// вложенные map[string]any и уже готовые Value.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return uintValue(uint64(val))
	case uint64:
		return uintValue(val)
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, val.String())
		}
		return Float(f), nil
	case time.Time:
		return Date(val), nil
	case map[string]any:
		return FromMap(val)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedType, u)
	}
	return Int(u), nil
}

// FromMap строит Properties из обычной map.
// Порядок ключей в map не определен, поэтому ключи сортируются.
func FromMap(m map[string]any) (*Properties, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := New()
	for _, k := range keys {
		v, err := ValueOf(m[k])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		p.Set(k, v)
	}

	return p, nil
}
