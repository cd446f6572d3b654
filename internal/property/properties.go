package property

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties — упорядоченный набор свойств события.
// Порядок вставки сохраняется при сериализации в JSON.
// Методы чтения (Get, Len, Keys, Range, HasFold, Clone, MarshalJSON)
// принимают nil *Properties как пустой набор. Set на nil недопустим.
type Properties struct {
	m *orderedmap.OrderedMap[string, Value]
}

func New() *Properties {
	return &Properties{
		m: orderedmap.New[string, Value](),
	}
}

func (*Properties) Kind() Kind { return MapKind }
func (*Properties) isValue()   {}

// Set добавляет или заменяет значение по ключу.
// Существующий ключ сохраняет свою позицию. nil значение игнорируется.
func (p *Properties) Set(key string, value Value) *Properties {
	if value == nil {
		return p
	}
	if p.m == nil {
		p.m = orderedmap.New[string, Value]()
	}

	p.m.Set(key, value)
	return p
}

func (p *Properties) Get(key string) (Value, bool) {
	if p == nil || p.m == nil {
		return nil, false
	}
	return p.m.Get(key)
}

func (p *Properties) Delete(key string) {
	if p == nil || p.m == nil {
		return
	}
	p.m.Delete(key)
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return p.m.Len()
}

func (p *Properties) Keys() []string {
	if p == nil || p.m == nil {
		return nil
	}

	keys := make([]string, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range обходит свойства в порядке вставки, пока fn возвращает true.
func (p *Properties) Range(fn func(key string, value Value) bool) {
	if p == nil {
		return
	}

	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// HasFold сообщает, есть ли ключ, равный key без учета регистра.
func (p *Properties) HasFold(key string) bool {
	found := false
	p.Range(func(k string, _ Value) bool {
		found = strings.EqualFold(k, key)
		return !found
	})
	return found
}

// Clone возвращает глубокую копию, включая вложенные наборы.
func (p *Properties) Clone() *Properties {
	c := New()
	p.Range(func(k string, v Value) bool {
		c.Set(k, cloneValue(v))
		return true
	})
	return c
}

func cloneValue(v Value) Value {
	if nested, ok := v.(*Properties); ok {
		return nested.Clone()
	}
	return v
}

func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	var err error
	i := 0
	p.Range(func(k string, v Value) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++

		var key, value []byte
		if key, err = json.Marshal(k); err != nil {
			return false
		}
		if value, err = v.MarshalJSON(); err != nil {
			err = fmt.Errorf("property %q: %w", k, err)
			return false
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		return true
	})
	if err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает JSON объект с сохранением порядка ключей.
// Целые числа становятся Int, дробные в Float, строки остаются String.
// Массивы и null не поддерживаются.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object", ErrInvalidJSON)
	}

	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}

	*p = *parsed
	return nil
}

// decodeObject читает пары ключ-значение после открывающей '{'.
func decodeObject(dec *json.Decoder) (*Properties, error) {
	p := New()

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return p, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected key", ErrInvalidJSON)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}

		p.Set(key, value)
	}
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return decodeObject(dec)
		}
		return nil, fmt.Errorf("%w: array", ErrUnsupportedType)
	case nil:
		return nil, fmt.Errorf("%w: null", ErrUnsupportedType)
	default:
		return ValueOf(v)
	}
}
