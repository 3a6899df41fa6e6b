package catalog

// ModuleID identifies a module across sessions. IDs are persisted, so
// renaming one orphans saved progress for it.
type ModuleID string

// Kind selects how a module is presented.
type Kind string

const (
	// KindLesson is a concept screen that earns points over time.
	KindLesson Kind = "lesson"
	// KindObservation hosts the collapse grid.
	KindObservation Kind = "observation"
	// KindGallery lists recently observed signals.
	KindGallery Kind = "gallery"
	// KindOutro closes the journey with the observed signal.
	KindOutro Kind = "outro"
)

func (k Kind) valid() bool {
	switch k {
	case "", KindLesson, KindObservation, KindGallery, KindOutro:
		return true
	}
	return false
}

// Module is one gated stage of the journey.
type Module struct {
	ID             ModuleID `toml:"id"`
	Title          string   `toml:"title"`
	RequiredPoints int      `toml:"required_points"`
	Concept        string   `toml:"concept"`
	Explanation    string   `toml:"explanation"`
	Interaction    string   `toml:"interaction"`
	Kind           Kind     `toml:"kind"`
}

// Presentation returns the module kind, defaulting to KindLesson.
func (m Module) Presentation() Kind {
	if m.Kind == "" {
		return KindLesson
	}
	return m.Kind
}
