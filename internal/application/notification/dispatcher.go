package notification

import (
	"context"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/event"
	"github.com/rs/zerolog"
)

// Dispatcher recibe los eventos ya confirmados. Nunca debe hacer fallar la petición que los originó.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev event.Event)
}

// Handler procesa un evento (lo implementa Service).
type Handler interface {
	Handle(ctx context.Context, ev event.Event) error
}

// AsyncDispatcher procesa cada evento en una goroutine propia. Se usa cuando no hay Redis.
type AsyncDispatcher struct {
	h       Handler
	timeout time.Duration
	log     zerolog.Logger
}

func NewAsyncDispatcher(h Handler, timeout time.Duration, log zerolog.Logger) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncDispatcher{h: h, timeout: timeout, log: log}
}

// Dispatch no bloquea; el contexto de la petición no cancela el envío.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, ev event.Event) {
	if ev == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		if err := d.h.Handle(ctx, ev); err != nil {
			d.log.Error().Err(err).Str("event", ev.Name()).Msg("error notificando evento")
		}
	}()
}
