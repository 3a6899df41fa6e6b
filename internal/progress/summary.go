package progress

import "github.com/abhisek/quantumsignals/internal/catalog"

// Summary is a condensed view of progress for status displays.
type Summary struct {
	TotalPoints      int
	UnlockedModules  int
	CompletedModules int
	TotalModules     int
	CompletedJourney bool
	CurrentModule    catalog.ModuleID
}

// Summarize condenses snap.
func Summarize(snap *Snapshot) Summary {
	sum := Summary{
		TotalPoints:      snap.TotalPoints,
		TotalModules:     len(snap.Modules),
		CompletedJourney: snap.CompletedJourney,
		CurrentModule:    snap.CurrentModule,
	}
	for _, m := range snap.Modules {
		if m.Unlocked {
			sum.UnlockedModules++
		}
		if m.Completed {
			sum.CompletedModules++
		}
	}
	return sum
}

// Summary returns a summary of the current progress.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Summarize(e.snap)
}
