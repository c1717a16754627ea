package syncclient

import "leaflet/internal/model"

// SyncState tells whether a local record matches the server.
type SyncState string

const (
	StateSynced   SyncState = "synced"
	StatePending  SyncState = "pending"
	StateConflict SyncState = "conflict"
)

// Op is the remote operation a pending record still owes the server.
type Op string

const (
	OpNone   Op = ""
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Entry is one task as the client knows it.
type Entry struct {
	Task  model.Task `json:"task"`
	State SyncState  `json:"state"`
	Op    Op         `json:"op,omitempty"`

	// inflight is set while a remote call for this record is outstanding.
	inflight bool
}

// Visible reports whether the entry shows up in task listings. Records
// waiting for a remote delete are already gone from the user's view.
func (e Entry) Visible() bool {
	return e.Op != OpDelete
}

// Document is the on-disk shape of the local cache.
type Document struct {
	Tasks              []Entry           `json:"tasks"`
	Preferences        model.Preferences `json:"preferences"`
	PreferencesPending bool              `json:"preferencesPending"`
}

// CreateRequest is the body of POST /api/tasks.
type CreateRequest struct {
	Text     string         `json:"text"`
	Category string         `json:"category,omitempty"`
	Priority model.Priority `json:"priority,omitempty"`
}

// Stats summarises the visible task list.
type Stats struct {
	Total     int
	Completed int
	Remaining int
	Pending   int
	Conflicts int
}

// ReconcileResult counts what a reconciliation pass achieved.
type ReconcileResult struct {
	Synced    int
	Conflicts int
	Remaining int
}

// LoadResult reports where Load got its data from.
type LoadResult struct {
	Online bool
	Tasks  int
}
