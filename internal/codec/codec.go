package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mixpanel-tracker/internal/event"
	"net/url"

	"go.uber.org/zap"
)

const (
	dataParam = "data"
	testParam = "test=1"
)

// EncodeRecord сериализует одну запись в JSON и кодирует в base64.
func EncodeRecord(record event.Record) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		zap.L().Error(err.Error())
		return "", fmt.Errorf("encode record %q: %w", record.Event, err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// EncodeBatch сериализует записи JSON массивом и кодирует в base64.
// Пустой или nil батч кодируется как [].
func EncodeBatch(records []event.Record) (string, error) {
	if records == nil {
		records = []event.Record{}
	}

	b, err := json.Marshal(records)
	if err != nil {
		zap.L().Error(err.Error())
		return "", fmt.Errorf("encode batch of %d: %w", len(records), err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// Payload оборачивает закодированные данные в form-строку data=...
// и добавляет test=1 для тестовых запросов.
func Payload(data string, test bool) string {
	payload := dataParam + "=" + url.QueryEscape(data)
	if test {
		payload += "&" + testParam
	}
	return payload
}

// DecodePayload достает JSON из строки, собранной Payload.
func DecodePayload(payload string) ([]byte, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, fmt.Errorf("parse payload: %w", err)
	}

	data := values.Get(dataParam)
	if data == "" {
		return nil, ErrMissingData
	}

	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	return b, nil
}
