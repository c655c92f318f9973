package dto

import "time"

// ReceivablesQuery rango de fechas de salida (YYYY-MM-DD).
type ReceivablesQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ClientBalanceResponse saldo de un cliente.
type ClientBalanceResponse struct {
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	Services    int    `json:"services"`
	Outstanding int64  `json:"outstanding"`
	OldestDate  string `json:"oldest_date"`
}

// AgingBucketResponse tramo de antigüedad.
type AgingBucketResponse struct {
	Label   string  `json:"label"`
	Amount  int64   `json:"amount"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ReceivablesSummaryResponse resumen de cartera.
type ReceivablesSummaryResponse struct {
	AsOf       time.Time               `json:"as_of"`
	Total      int64                   `json:"total"`
	Clients    []ClientBalanceResponse `json:"clients"`
	TopDebtors []ClientBalanceResponse `json:"top_debtors"`
	Aging      []AgingBucketResponse   `json:"aging"`
}

// ReceivableItemResponse servicio pendiente de un cliente.
type ReceivableItemResponse struct {
	ServiceID     string `json:"service_id"`
	RouteID       string `json:"route_id"`
	DepartureDate string `json:"departure_date"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Value         int64  `json:"value"`
	Paid          int64  `json:"paid"`
	Outstanding   int64  `json:"outstanding"`
	AgeDays       int    `json:"age_days"`
}

// ClientReceivablesResponse cartera de un cliente.
type ClientReceivablesResponse struct {
	Client      ClientResponse           `json:"client"`
	Outstanding int64                    `json:"outstanding"`
	Items       []ReceivableItemResponse `json:"items"`
}
