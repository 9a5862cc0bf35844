package model

// MenuEntry represents one category/series definition in the `menu`
// table.  The operator edits these rows; tickets are regenerated from
// them.  Alloc and TotalCapacity are derived from Series and Admit and
// are only refreshed when Series parses.
//
// Fields:
//  Type          – Public or Guest.
//  Category      – unique within Type.
//  Series        – inclusive ticket number range "start-end", e.g. "1-50".
//  Admit         – seats per ticket in this category.
//  Seq           – ordering key shared with Ticket.Seq.
//  Alloc         – number of tickets in Series (derived).
//  TotalCapacity – Alloc * Admit (derived).
type MenuEntry struct {
	Type          TicketType `json:"Type"`           // menu.type
	Category      string     `json:"Category"`       // menu.category
	Series        string     `json:"Series"`         // menu.series
	Admit         int        `json:"Admit"`          // menu.admit
	Seq           *float64   `json:"Seq"`            // menu.seq (nullable)
	Alloc         int        `json:"Alloc"`          // menu.alloc
	TotalCapacity int        `json:"Total_Capacity"` // menu.total_capacity
}
