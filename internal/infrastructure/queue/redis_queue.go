// Package queue encola los eventos de dominio en listas de Redis y los consume con un pool de workers.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Acarreo-api/internal/application/notification"
	"github.com/jhoicas/Acarreo-api/internal/domain/event"
)

const (
	// QueueNotifications lista con los eventos pendientes de notificar.
	QueueNotifications = "acarreo:jobs:notificaciones"
	// DLQPrefix prefijo de la lista de eventos que no se pudieron procesar.
	DLQPrefix = "dlq:"
)

// RedisDispatcher implementa notification.Dispatcher con LPUSH.
// Si Redis falla se procesa el evento en proceso para no perder la notificación.
type RedisDispatcher struct {
	rdb      *redis.Client
	queue    string
	fallback notification.Dispatcher
	log      zerolog.Logger
}

var _ notification.Dispatcher = (*RedisDispatcher)(nil)

// NewRedisDispatcher fallback puede ser nil.
func NewRedisDispatcher(rdb *redis.Client, fallback notification.Dispatcher, log zerolog.Logger) *RedisDispatcher {
	return &RedisDispatcher{rdb: rdb, queue: QueueNotifications, fallback: fallback, log: log}
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, ev event.Event) {
	if ev == nil {
		return
	}
	data, err := notification.Encode(ev)
	if err != nil {
		d.log.Error().Err(err).Str("event", ev.Name()).Msg("no se pudo serializar el evento")
		return
	}
	if err := d.rdb.LPush(context.WithoutCancel(ctx), d.queue, data).Err(); err != nil {
		d.log.Warn().Err(err).Str("event", ev.Name()).Msg("redis no disponible, notificando en proceso")
		if d.fallback != nil {
			d.fallback.Dispatch(ctx, ev)
		}
	}
}

// Pool consume la cola con BRPOP. Cada worker bloquea sin consumir CPU mientras no hay trabajo.
type Pool struct {
	rdb     *redis.Client
	queue   string
	h       notification.Handler
	workers int
	wait    time.Duration
	timeout time.Duration
	log     zerolog.Logger
	done    chan struct{}
}

// NewPool workers < 1 se trata como 1.
func NewPool(rdb *redis.Client, h notification.Handler, workers int, log zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		rdb: rdb, queue: QueueNotifications, h: h, workers: workers,
		wait: 5 * time.Second, timeout: 30 * time.Second, log: log,
	}
}

// Start lanza los workers; terminan cuando ctx se cancela. Done se cierra cuando salen todos.
func (p *Pool) Start(ctx context.Context) {
	p.done = make(chan struct{})
	finished := make(chan struct{}, p.workers)
	for i := 0; i < p.workers; i++ {
		go func(id int) {
			p.run(ctx, id)
			finished <- struct{}{}
		}(i)
	}
	go func() {
		for i := 0; i < p.workers; i++ {
			<-finished
		}
		close(p.done)
	}()
	p.log.Info().Int("workers", p.workers).Str("queue", p.queue).Msg("pool de notificaciones iniciado")
}

// Done se cierra cuando todos los workers terminaron.
func (p *Pool) Done() <-chan struct{} { return p.done }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			p.log.Debug().Int("worker", id).Msg("worker detenido")
			return
		default:
		}
		result, err := p.rdb.BRPop(ctx, p.wait, p.queue).Result()
		if err != nil {
			// redis.Nil = timeout sin trabajo
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				p.log.Warn().Err(err).Int("worker", id).Msg("error leyendo la cola")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[1])
	}
}

func (p *Pool) process(ctx context.Context, raw string) {
	ev, err := notification.Decode([]byte(raw))
	if err != nil {
		p.deadLetter(ctx, raw, err)
		return
	}
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.h.Handle(hctx, ev); err != nil {
		p.log.Error().Err(err).Str("event", ev.Name()).Msg("error notificando evento")
	}
}

// DLQEntry evento que no se pudo decodificar, para inspección manual.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt string          `json:"failed_at"`
}

func (p *Pool) deadLetter(ctx context.Context, raw string, reason error) {
	payload := json.RawMessage(raw)
	if !json.Valid(payload) {
		payload, _ = json.Marshal(raw)
	}
	data, err := json.Marshal(DLQEntry{
		Queue:    p.queue,
		Payload:  payload,
		Reason:   reason.Error(),
		FailedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := p.rdb.LPush(context.WithoutCancel(ctx), DLQPrefix+p.queue, data).Err(); err != nil {
		p.log.Error().Err(err).Msg("dlq: no se pudo guardar el evento")
		return
	}
	p.log.Warn().Str("reason", reason.Error()).Msg("dlq: evento movido a la cola de descarte")
}

// DLQLength cantidad de eventos descartados.
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+QueueNotifications).Result()
}
