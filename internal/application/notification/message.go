// Package notification gestiona suscripciones Web Push y reparte los eventos de dominio
// a los usuarios de la empresa.
package notification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// Urgencias del encabezado Urgency de Web Push.
const (
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
)

// ErrSubscriptionGone el servicio push respondió 404/410: la suscripción ya no existe.
var ErrSubscriptionGone = errors.New("suscripción push expirada")

// Action botón de la notificación.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Message carga útil que recibe el service worker.
type Message struct {
	Title              string            `json:"title"`
	Body               string            `json:"body"`
	Data               map[string]string `json:"data"`
	Icon               string            `json:"icon"`
	Badge              string            `json:"badge"`
	Tag                string            `json:"tag"`
	RequireInteraction bool              `json:"requireInteraction"`
	Actions            []Action          `json:"actions"`
	Urgency            string            `json:"-"`
}

func newMessage(title, body, url, urgency string) Message {
	return Message{
		Title:   title,
		Body:    body,
		Data:    map[string]string{"url": url},
		Icon:    "/static/icons/android-chrome-192x192.png",
		Badge:   "/static/icons/favicon-32x32.png",
		Tag:     "acarreapp",
		Actions: []Action{},
		Urgency: urgency,
	}
}

// Payload JSON enviado al navegador.
func (m Message) Payload() ([]byte, error) { return json.Marshal(m) }

// Sender entrega un mensaje a una suscripción concreta.
type Sender interface {
	Send(ctx context.Context, sub *entity.PushSubscription, msg Message) error
}
