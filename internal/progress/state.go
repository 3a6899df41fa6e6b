package progress

// Status is the gating state of a module.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusUnlocked  Status = "unlocked"
	StatusCompleted Status = "completed"
)

// ModuleState is the persisted progress of one module.
type ModuleState struct {
	Points         int  `json:"points"`
	Completed      bool `json:"completed"`
	Unlocked       bool `json:"unlocked"`
	BestScore      int  `json:"bestScore"`
	RequiredPoints int  `json:"requiredPoints"`
}

// Status derives the gating state from the flags. A module can be reset
// back to unlocked, but never back to locked.
func (m ModuleState) Status() Status {
	switch {
	case m.Completed:
		return StatusCompleted
	case m.Unlocked:
		return StatusUnlocked
	default:
		return StatusLocked
	}
}

// Remaining returns the points still needed to complete the module.
func (m ModuleState) Remaining() int {
	if m.Points >= m.RequiredPoints {
		return 0
	}
	return m.RequiredPoints - m.Points
}
