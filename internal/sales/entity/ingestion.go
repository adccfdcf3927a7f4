package entity

// IngestionMeta describes one upload attempt. It never holds uploaded rows.
type IngestionMeta struct {
	ID           string
	DashboardID  string
	IngestionID  int64
	FileName     string
	Status       IngestionStatus
	ErrKind      ErrorKind
	Err          string
	Rows         int
	TotalRevenue float64
	TotalQty     float64
	Products     int
	At           int64
}

// IngestionEvent is published after every upload attempt.
type IngestionEvent struct {
	EventID string
	Meta    IngestionMeta
}
