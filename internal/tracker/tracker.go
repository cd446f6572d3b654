package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mixpanel-tracker/internal/batch"
	"mixpanel-tracker/internal/codec"
	"mixpanel-tracker/internal/deadletter"
	"mixpanel-tracker/internal/dispatcher"
	"mixpanel-tracker/internal/event"
	"mixpanel-tracker/internal/property"
	"mixpanel-tracker/internal/transport"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker отправляет события в сервис трекинга по одному или батчами.
// Токен и настройки принадлежат экземпляру, глобального состояния нет.
type Tracker struct {
	options   Options
	endpoint  string
	transport transport.Transport
	formatter property.Formatter
	batch     *batch.Accumulator[event.Record]
	disp      *dispatcher.Dispatcher

	listenersMu sync.RWMutex
	listeners   []Listener

	// отчеты сбросов, накопленные под мьютексом аккумулятора
	reportsMu sync.Mutex
	reports   []Report
}

// NewTracker создает трекер.
// При nil transport используется HTTP транспорт с таймаутом из options.
// При nil options используются DefaultOptions. Options копируются.
func NewTracker(token string, tr transport.Transport, options *Options) (*Tracker, error) {
	if token == "" {
		zap.L().Error(ErrEmptyToken.Error())
		return nil, ErrEmptyToken
	}

	if options == nil {
		options = DefaultOptions()
	}
	opts := *options
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	if tr == nil {
		tr = transport.NewHTTPTransport(opts.HTTPTimeout)
	}

	t := &Tracker{
		options:   opts,
		endpoint:  transport.Track(opts.ProxyURL),
		transport: tr,
		formatter: property.Formatter{
			Token:        token,
			SetEventTime: opts.SetEventTime,
			Literal:      opts.LiteralSerialization,
		},
	}

	if opts.FailurePolicy == PolicyRetry {
		t.disp = dispatcher.NewDispatcher()
		if err := t.disp.SetAttempts(opts.RetryAttempts); err != nil {
			zap.L().Error(err.Error())
			return nil, err
		}
		t.disp.SetPause(opts.RetryPause)

		// таймаут попытки совпадает с таймаутом HTTP клиента
		timeout := opts.HTTPTimeout
		if timeout <= 0 {
			timeout = transport.DefaultTimeout
		}
		t.disp.SetTimeout(timeout)
	}

	acc, err := batch.NewAccumulator[event.Record](opts.MaxBatchSize, t.send)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	t.batch = acc

	return t, nil
}

// Options возвращает копию настроек трекера.
func (t *Tracker) Options() Options {
	return t.options
}

// Endpoint возвращает адрес ресурса track.
func (t *Tracker) Endpoint() string {
	return t.endpoint
}

// AddListener регистрирует получателя отчетов об операциях.
// Слушатели вызываются синхронно в горутине операции после
// освобождения батча, поэтому из них можно вызывать методы трекера.
func (t *Tracker) AddListener(listener Listener) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	t.listeners = append(t.listeners, listener)
}

// Track немедленно отправляет одно событие.
// Возвращает true, если сервис ответил SuccessSentinel.
// Ошибка возвращается только при сбое кодирования или транспорта.
func (t *Tracker) Track(ctx context.Context, name string, props *property.Properties) (bool, error) {
	start := time.Now()
	record := t.prepare(name, props)

	data, err := codec.EncodeRecord(record)
	if err != nil {
		return false, err
	}
	payload := codec.Payload(data, t.options.Test)

	var body string
	if t.options.UseGet {
		body, err = t.transport.Get(ctx, t.endpoint, payload)
	} else {
		body, err = t.transport.Post(ctx, t.endpoint, payload)
	}

	ok := err == nil && body == SuccessSentinel
	if err != nil {
		zap.L().Error(err.Error(), zap.String("event", name))
		err = fmt.Errorf("track %q: %w", name, err)
	} else {
		zap.L().Debug("event sent",
			zap.String("event", name),
			zap.Bool("success", ok),
		)
	}

	t.notify(Report{
		Operation: OperationTrack,
		Records:   1,
		Success:   ok,
		Err:       err,
		Duration:  time.Since(start),
	})

	return ok, err
}

// TrackEvent отправляет типизированное событие.
func (t *Tracker) TrackEvent(ctx context.Context, ev event.Tracked) (bool, error) {
	name, props := ev.ToTrackedEvent()
	return t.Track(ctx, name, props)
}

// AddBatch добавляет событие в батч. Событие, заполнившее батч,
// синхронно отправляет его и возвращает результат отправки,
// в остальных случаях возвращается true.
func (t *Tracker) AddBatch(ctx context.Context, name string, props *property.Properties) (bool, error) {
	record := t.prepare(name, props)

	// запись, которую нельзя закодировать, испортила бы весь батч
	if _, err := json.Marshal(record); err != nil {
		zap.L().Error(err.Error(), zap.String("event", name))
		return false, fmt.Errorf("add %q to batch: %w", name, err)
	}

	ok, err := t.batch.Push(ctx, record)
	t.deliverReports()
	return ok, err
}

// AddBatchEvent добавляет в батч типизированное событие.
func (t *Tracker) AddBatchEvent(ctx context.Context, ev event.Tracked) (bool, error) {
	name, props := ev.ToTrackedEvent()
	return t.AddBatch(ctx, name, props)
}

// Flush отправляет накопленный батч POST запросом, даже если он пуст.
// Батч очищается независимо от результата.
func (t *Tracker) Flush(ctx context.Context) (bool, error) {
	ok, err := t.batch.Flush(ctx)
	t.deliverReports()
	return ok, err
}

// Pending возвращает количество событий, ожидающих отправки.
func (t *Tracker) Pending() int {
	return t.batch.Len()
}

// Close отправляет оставшиеся события, если они есть,
// и закрывает хранилище недоставленных батчей.
func (t *Tracker) Close(ctx context.Context) error {
	var errs []error

	if t.Pending() > 0 {
		if _, err := t.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if closer, ok := t.options.DeadLetter.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			zap.L().Error(err.Error())
			errs = append(errs, fmt.Errorf("%w: %w", ErrDeadLetterSink, err))
		}
	}

	return errors.Join(errs...)
}

func (t *Tracker) prepare(name string, props *property.Properties) event.Record {
	return event.Record{
		Event:      name,
		Properties: t.formatter.Format(props),
	}
}

// send сбрасывает батч, вызывается под мьютексом аккумулятора.
// Отчет откладывается до deliverReports.
func (t *Tracker) send(ctx context.Context, records []event.Record) (bool, error) {
	start := time.Now()
	report := Report{
		Operation: OperationFlush,
		Records:   len(records),
	}
	defer func() {
		report.Duration = time.Since(start)
		t.queueReport(report)
	}()

	data, err := codec.EncodeBatch(records)
	if err != nil {
		report.Err = err
		return false, err
	}
	payload := codec.Payload(data, t.options.Test)

	post := func(ctx context.Context) error {
		body, err := t.transport.Post(ctx, t.endpoint, payload)
		if err != nil {
			return err
		}
		if body != SuccessSentinel {
			return fmt.Errorf("%w: %q", ErrRejected, body)
		}
		return nil
	}

	if t.options.FailurePolicy == PolicyRetry {
		err = t.disp.Write(ctx, post)
	} else {
		err = post(ctx)
	}

	if err == nil {
		zap.L().Debug("batch sent", zap.Int("records", len(records)))
		report.Success = true
		return true, nil
	}

	zap.L().Error(err.Error(), zap.Int("records", len(records)))

	// отказ сервиса считается логической неудачей, а не ошибкой
	var sendErr error
	if !errors.Is(err, ErrRejected) {
		sendErr = fmt.Errorf("flush %d records: %w", len(records), err)
	}

	if t.options.FailurePolicy == PolicyDeadLetter {
		if dlErr := t.deadLetter(ctx, records, err); dlErr != nil {
			sendErr = errors.Join(sendErr, dlErr)
		} else {
			report.DeadLettered = true
		}
	}

	report.Err = sendErr
	return false, sendErr
}

func (t *Tracker) deadLetter(ctx context.Context, records []event.Record, reason error) error {
	b, err := json.Marshal(records)
	if err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("%w: %w", ErrDeadLetterSink, err)
	}

	// батч сохраняется и после отмены контекста отправки
	letter := deadletter.NewLetter(len(records), reason.Error(), b)
	if err := t.options.DeadLetter.Store(context.WithoutCancel(ctx), letter); err != nil {
		zap.L().Error(err.Error(), zap.String("letter", letter.ID))
		return fmt.Errorf("%w: %w", ErrDeadLetterSink, err)
	}

	zap.L().Warn("batch dead-lettered",
		zap.String("letter", letter.ID),
		zap.Int("records", len(records)),
	)

	return nil
}

func (t *Tracker) queueReport(report Report) {
	t.reportsMu.Lock()
	defer t.reportsMu.Unlock()

	t.reports = append(t.reports, report)
}

func (t *Tracker) deliverReports() {
	t.reportsMu.Lock()
	reports := t.reports
	t.reports = nil
	t.reportsMu.Unlock()

	for _, report := range reports {
		t.notify(report)
	}
}

func (t *Tracker) notify(report Report) {
	t.listenersMu.RLock()
	listeners := make([]Listener, len(t.listeners))
	copy(listeners, t.listeners)
	t.listenersMu.RUnlock()

	for _, listener := range listeners {
		listener(report)
	}
}
