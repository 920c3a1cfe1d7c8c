package domain

// RevenueByCurrency is the sum of succeeded payment amounts in one currency.
type RevenueByCurrency struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// DailyCount is the number of shipments created on one calendar day (UTC).
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AnalyticsSummary is the derived aggregate view served to admins.
type AnalyticsSummary struct {
	TotalShipments   int64                        `json:"total_shipments"`
	ByStatus         map[ShipmentStatus]int64     `json:"by_status"`
	ByServiceType    map[ServiceType]int64        `json:"by_service_type"`
	Revenue          []RevenueByCurrency          `json:"revenue"`
	OpenTickets      int64                        `json:"open_tickets"`
	DriversByState   map[DriverAvailability]int64 `json:"drivers_by_state"`
	CreatedLast7Days []DailyCount                 `json:"created_last_7_days"`
}
