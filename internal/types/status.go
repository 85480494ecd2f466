package types

// Status is the shared lifecycle state of catalog records. Listings filter
// deleted rows instead of physically removing them.
type Status int

const (
	StatusActive Status = iota + 1
	StatusInactive
	StatusPending
	StatusDeleted
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusDeleted:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusPending:
		return "pending"
	case StatusDeleted:
		return "deleted"
	}
	return "unknown"
}
