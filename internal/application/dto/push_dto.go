package dto

// PushSubscribeRequest suscripción del navegador (formato PushSubscription.toJSON()).
type PushSubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// PushStatusResponse estado de las notificaciones del usuario.
type PushStatusResponse struct {
	Enabled       bool   `json:"enabled"`
	Subscriptions int    `json:"subscriptions"`
	PublicKey     string `json:"public_key,omitempty"`
}

// PushTestResponse resultado del envío de prueba.
type PushTestResponse struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
