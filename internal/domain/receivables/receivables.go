// Package receivables agrega la cartera pendiente por cliente y por antigüedad.
package receivables

import (
	"math"
	"sort"
	"time"
)

// TopDebtors cantidad de clientes en el ranking de mayores deudores.
const TopDebtors = 10

// Item servicio con saldo pendiente, tal como lo entrega el repositorio.
type Item struct {
	ServiceID     string
	ClientID      string
	ClientName    string
	RouteID       string
	DepartureDate time.Time
	Origin        string
	Destination   string
	Value         int64
	Paid          int64
	Outstanding   int64
}

// ClientBalance saldo agregado de un cliente.
type ClientBalance struct {
	ClientID    string
	ClientName  string
	Services    int
	Outstanding int64
	Oldest      time.Time
}

// Bucket tramo de antigüedad de la cartera (días desde la salida de la ruta).
type Bucket struct {
	Label   string
	MinDays int
	MaxDays int // -1 = sin límite
	Amount  int64
	Count   int
	Percent float64
}

// Report resumen de cartera.
type Report struct {
	Total      int64
	Clients    []ClientBalance
	TopDebtors []ClientBalance
	Buckets    []Bucket
}

func newBuckets() []Bucket {
	return []Bucket{
		{Label: "0-30", MinDays: 0, MaxDays: 30},
		{Label: "31-60", MinDays: 31, MaxDays: 60},
		{Label: "61-90", MinDays: 61, MaxDays: 90},
		{Label: "90+", MinDays: 91, MaxDays: -1},
	}
}

// AgeDays días completos entre la fecha de salida y asOf (nunca negativo).
func AgeDays(departure, asOf time.Time) int {
	d0 := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	d1 := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d1.Sub(d0).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Build agrupa los ítems por cliente y por tramo. Ítems sin saldo se ignoran.
func Build(items []Item, asOf time.Time) Report {
	buckets := newBuckets()
	byClient := make(map[string]*ClientBalance)
	var total int64

	for _, it := range items {
		if it.Outstanding <= 0 {
			continue
		}
		total += it.Outstanding

		cb, ok := byClient[it.ClientID]
		if !ok {
			cb = &ClientBalance{ClientID: it.ClientID, ClientName: it.ClientName, Oldest: it.DepartureDate}
			byClient[it.ClientID] = cb
		}
		cb.Services++
		cb.Outstanding += it.Outstanding
		if it.DepartureDate.Before(cb.Oldest) {
			cb.Oldest = it.DepartureDate
		}

		age := AgeDays(it.DepartureDate, asOf)
		for i := range buckets {
			if age >= buckets[i].MinDays && (buckets[i].MaxDays < 0 || age <= buckets[i].MaxDays) {
				buckets[i].Amount += it.Outstanding
				buckets[i].Count++
				break
			}
		}
	}

	clients := make([]ClientBalance, 0, len(byClient))
	for _, cb := range byClient {
		clients = append(clients, *cb)
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].Outstanding != clients[j].Outstanding {
			return clients[i].Outstanding > clients[j].Outstanding
		}
		return clients[i].ClientName < clients[j].ClientName
	})

	if total > 0 {
		for i := range buckets {
			buckets[i].Percent = math.Round(float64(buckets[i].Amount)*1000/float64(total)) / 10
		}
	}

	top := clients
	if len(top) > TopDebtors {
		top = top[:TopDebtors]
	}
	return Report{Total: total, Clients: clients, TopDebtors: top, Buckets: buckets}
}
