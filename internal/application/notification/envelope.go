package notification

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Acarreo-api/internal/domain/event"
)

// Envelope forma serializada de un evento para la cola.
type Envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Encode serializa un evento conocido.
func Encode(ev event.Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Name(), err)
	}
	return json.Marshal(Envelope{Name: ev.Name(), Payload: payload})
}

// Decode reconstruye el evento a partir del sobre.
func Decode(data []byte) (event.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	switch env.Name {
	case event.NameRouteCreated:
		var ev event.RouteCreated
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Name, err)
		}
		return ev, nil
	case event.NameServiceCreated:
		var ev event.ServiceCreated
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Name, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("evento desconocido %q", env.Name)
	}
}
