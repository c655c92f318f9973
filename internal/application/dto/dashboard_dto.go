package dto

// DashboardQuery periodo del análisis: range=mes|7d|30d|custom; from/to solo en custom.
type DashboardQuery struct {
	Range    string `query:"range"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	DriverID string `query:"driver_id" validate:"omitempty,uuid"`
}

// DashboardCountsResponse contadores operativos del día.
type DashboardCountsResponse struct {
	ActiveRoutes   int `json:"active_routes"`
	ActiveServices int `json:"active_services"`
	PendingToday   int `json:"pending_today"`
	DeliveredToday int `json:"delivered_today"`
}

// DashboardMonthResponse totales del mes en curso.
type DashboardMonthResponse struct {
	Billed     int64 `json:"billed"`
	Collected  int64 `json:"collected"`
	Receivable int64 `json:"receivable"`
	Services   int   `json:"services"`
}

// DailyBilledResponse venta de un día.
type DailyBilledResponse struct {
	Date   string `json:"date"`
	Billed int64  `json:"billed"`
}

// RankedResponse conductor o cliente con su total facturado.
type RankedResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// DashboardPeriodResponse indicadores del periodo consultado.
type DashboardPeriodResponse struct {
	Range            string                `json:"range"`
	From             string                `json:"from"`
	To               string                `json:"to"`
	Billed           int64                 `json:"billed"`
	Collected        int64                 `json:"collected"`
	Receivable       int64                 `json:"receivable"`
	Services         int                   `json:"services"`
	AverageTicket    int64                 `json:"average_ticket"`
	CollectedPercent float64               `json:"collected_percent"`
	LeadTimeHours    *float64              `json:"lead_time_hours"`
	Daily            []DailyBilledResponse `json:"daily"`
	TopDrivers       []RankedResponse      `json:"top_drivers"`
	TopClients       []RankedResponse      `json:"top_clients"`
}

// DashboardSummaryResponse tablero de gerencia.
type DashboardSummaryResponse struct {
	DateLabel    string                  `json:"date_label"`
	Month        DashboardMonthResponse  `json:"month"`
	Counts       DashboardCountsResponse `json:"counts"`
	Period       DashboardPeriodResponse `json:"period"`
	ActiveRoutes []RouteResponse         `json:"active_routes"`
}
