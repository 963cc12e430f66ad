package model

// Table is a physical table on the floor.  Tables are managed by the
// store configuration and are only read by the booking engine.
//
// Fields:
//  ID              – primary key identifier.
//  ExternalTableID – label printed on the table / used by the floor plan.
//  Capacity        – number of seats, always greater than zero.
type Table struct {
	ID              uint64 `db:"id" json:"id"`                                // tables.id
	ExternalTableID string `db:"external_table_id" json:"external_table_id"` // tables.external_table_id
	Capacity        int    `db:"capacity" json:"capacity"`                   // tables.capacity
}
