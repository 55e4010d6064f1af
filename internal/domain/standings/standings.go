package standings

// Row is one manager entry in a classic league table.
type Row struct {
	EntryID     int
	EntryName   string
	ManagerName string
	Rank        int // 0 when upstream omits it
	LastRank    int
	Total       int
	EventTotal  *int // nil when the gameweek score is absent
}

// League couples the table with its upstream identity.
type League struct {
	ID   int64
	Name string
	Rows []Row
}
