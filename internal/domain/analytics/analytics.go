// Package analytics calcula los indicadores del tablero de gerencia a partir de los
// servicios de un periodo. No accede a la base: recibe las filas ya filtradas.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain"
)

// TopN cantidad de conductores y clientes en los rankings.
const TopN = 8

// MaxDays tope de la serie diaria de un rango personalizado.
const MaxDays = 366

// Rangos del periodo de análisis.
const (
	RangeMonth  = "mes"
	Range7Days  = "7d"
	Range30Days = "30d"
	RangeCustom = "custom"
)

// Fact un servicio con los datos de su ruta, tal como lo entrega el repositorio.
type Fact struct {
	ServiceID     string
	RouteID       string
	DepartureDate time.Time // solo fecha (00:00 UTC)
	DriverID      string
	DriverName    string
	ClientID      string
	ClientName    string
	Value         int64
	Paid          int64
	PickupAt      *time.Time
	DeliveryAt    *time.Time
}

// Counts contadores operativos del día.
type Counts struct {
	ActiveRoutes   int
	ActiveServices int // sin entregar en rutas activas
	PendingToday   int // sin entregar en rutas que salen hoy
	DeliveredToday int
}

// Period rango cerrado de fechas de salida [From, To].
type Period struct {
	Range string
	From  time.Time
	To    time.Time
}

// Days cantidad de días del periodo.
func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// DayOf fecha (00:00 UTC) del día calendario de t en su zona.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthToDate del día 1 del mes de today hasta today.
func MonthToDate(today time.Time) Period {
	d := DayOf(today)
	return Period{Range: RangeMonth, From: d.AddDate(0, 0, 1-d.Day()), To: d}
}

// ParsePeriod interpreta rango=mes|7d|30d|custom. Un rango vacío es el mes en curso;
// en custom, from/to faltantes toman el inicio de mes y hoy, y se invierten si vienen al revés.
func ParsePeriod(rng, from, to string, today time.Time) (Period, error) {
	d := DayOf(today)
	switch strings.ToLower(strings.TrimSpace(rng)) {
	case "", RangeMonth:
		return MonthToDate(today), nil
	case Range7Days:
		return Period{Range: Range7Days, From: d.AddDate(0, 0, -6), To: d}, nil
	case Range30Days:
		return Period{Range: Range30Days, From: d.AddDate(0, 0, -29), To: d}, nil
	case RangeCustom:
		p := MonthToDate(today)
		p.Range = RangeCustom
		if from != "" {
			f, err := time.Parse("2006-01-02", from)
			if err != nil {
				return Period{}, domain.NewValidationError("from", "fecha inválida")
			}
			p.From = f
		}
		if to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return Period{}, domain.NewValidationError("to", "fecha inválida")
			}
			p.To = t
		}
		if p.To.Before(p.From) {
			p.From, p.To = p.To, p.From
		}
		if p.Days() > MaxDays {
			return Period{}, domain.NewValidationError("to", "el rango no puede superar un año")
		}
		return p, nil
	default:
		return Period{}, domain.NewValidationError("range", "use mes, 7d, 30d o custom")
	}
}

// DailyPoint venta de un día del periodo.
type DailyPoint struct {
	Date   time.Time
	Billed int64
}

// Ranked total facturado por conductor o cliente.
type Ranked struct {
	ID    string
	Name  string
	Total int64
}

// Report indicadores de un periodo.
type Report struct {
	Billed           int64
	Collected        int64
	Receivable       int64 // facturado - cobrado
	Services         int
	AverageTicket    int64
	CollectedPercent float64

	// LeadTimeHours promedio recogida -> entrega; nil si ningún servicio tiene ambas marcas.
	LeadTimeHours *float64
	Daily         []DailyPoint
	TopDrivers    []Ranked
	TopClients    []Ranked
}

// Build agrega los servicios del periodo. Los hechos fuera de [From, To] se ignoran.
func Build(facts []Fact, p Period) Report {
	var rep Report
	byDay := make(map[time.Time]int64)
	drivers := make(map[string]*Ranked)
	clients := make(map[string]*Ranked)
	var leadSeconds float64
	var pairs int

	for _, f := range facts {
		day := DayOf(f.DepartureDate)
		if day.Before(p.From) || day.After(p.To) {
			continue
		}
		rep.Services++
		rep.Billed += f.Value
		rep.Collected += f.Paid
		byDay[day] += f.Value
		accumulate(drivers, f.DriverID, f.DriverName, f.Value)
		accumulate(clients, f.ClientID, f.ClientName, f.Value)

		if f.PickupAt != nil && f.DeliveryAt != nil && f.DeliveryAt.After(*f.PickupAt) {
			leadSeconds += f.DeliveryAt.Sub(*f.PickupAt).Seconds()
			pairs++
		}
	}

	rep.Receivable = rep.Billed - rep.Collected
	if rep.Services > 0 {
		rep.AverageTicket = int64(math.Round(float64(rep.Billed) / float64(rep.Services)))
	}
	if rep.Billed > 0 {
		rep.CollectedPercent = math.Round(float64(rep.Collected)*1000/float64(rep.Billed)) / 10
	}
	if pairs > 0 {
		h := math.Round(leadSeconds/float64(pairs)/3600*10) / 10
		rep.LeadTimeHours = &h
	}

	rep.Daily = make([]DailyPoint, 0, p.Days())
	for d := p.From; !d.After(p.To); d = d.AddDate(0, 0, 1) {
		rep.Daily = append(rep.Daily, DailyPoint{Date: d, Billed: byDay[d]})
	}
	rep.TopDrivers = top(drivers)
	rep.TopClients = top(clients)
	return rep
}

func accumulate(m map[string]*Ranked, id, name string, value int64) {
	r, ok := m[id]
	if !ok {
		r = &Ranked{ID: id, Name: name}
		m[id] = r
	}
	r.Total += value
}

// top los TopN de mayor total; empate por nombre.
func top(m map[string]*Ranked) []Ranked {
	out := make([]Ranked, 0, len(m))
	for _, r := range m {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}
