package dedupe

// Status is the human-facing verdict of a row.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusDuplicate
	StatusMissingAndDuplicate
)

var statusLabels = map[Status]string{
	StatusOK:                  "ok",
	StatusMissing:             "missing gtin",
	StatusDuplicate:           "duplicate",
	StatusMissingAndDuplicate: "missing gtin+ duplicate",
}

// String returns the label written into the status column.
func (s Status) String() string {
	return statusLabels[s]
}

// MarshalText renders the status label.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// rank orders statuses in the problematic sheet.
func (s Status) rank() int {
	switch s {
	case StatusDuplicate:
		return 0
	case StatusMissingAndDuplicate:
		return 1
	case StatusMissing:
		return 2
	default:
		return 99
	}
}

// LabelRow derives the status of a single row.
func LabelRow(missing, duplicate bool) Status {
	switch {
	case missing && duplicate:
		return StatusMissingAndDuplicate
	case missing:
		return StatusMissing
	case duplicate:
		return StatusDuplicate
	default:
		return StatusOK
	}
}

// Label derives the status of every row.
func Label(derived []Derived, flags []Flags) []Status {
	out := make([]Status, len(derived))
	for i, d := range derived {
		out[i] = LabelRow(d.Missing, flags[i].Duplicate())
	}
	return out
}
