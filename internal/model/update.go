package model

// Outcome marks a field update as the terminal report of a worker generation
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeDone
	OutcomeCancelled
	OutcomeError
)

// IsTerminal returns true for every outcome except OutcomeNone
func (o Outcome) IsTerminal() bool {
	return o != OutcomeNone
}

// State maps a terminal outcome to its lifecycle state
func (o Outcome) State() TaskState {
	switch o {
	case OutcomeDone:
		return StateDone
	case OutcomeCancelled:
		return StateCancelled
	case OutcomeError:
		return StateError
	default:
		return ""
	}
}

// String returns a short name for logs and history rows
func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

// Fields is a partial task update. Nil pointers leave the current value as is;
// a pointer to "" clears the field.
type Fields struct {
	Status        *string
	Progress      *float64 // completion ratio in [0,1]
	Indeterminate bool     // total size unknown, Progress carries no information
	Speed         *string
	ETA           *string
	Total         *string
	Quality       *string
	Percent       *string
	Info          *Target // metadata fetched after the task was created
	Outcome       Outcome
	Error         string // engine message when Outcome is OutcomeError
}

// Text returns a pointer to s for use in Fields
func Text(s string) *string {
	return &s
}

// Ratio returns a pointer to r clamped to [0,1]
func Ratio(r float64) *float64 {
	r = ClampRatio(r)
	return &r
}

// ClampRatio bounds r to [0,1]. NaN becomes 0.
func ClampRatio(r float64) float64 {
	if r != r || r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// ClearTransient returns a copy of f with speed, ETA, total and percent blanked
func (f Fields) ClearTransient() Fields {
	f.Speed = Text("")
	f.ETA = Text("")
	f.Total = Text("")
	f.Percent = Text("")
	return f
}

// IsEmpty reports whether f carries nothing to apply
func (f Fields) IsEmpty() bool {
	return f.Status == nil && f.Progress == nil && f.Speed == nil && f.ETA == nil &&
		f.Total == nil && f.Quality == nil && f.Percent == nil && f.Info == nil &&
		!f.Indeterminate && f.Outcome == OutcomeNone
}
