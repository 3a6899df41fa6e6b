package screen

import (
	"context"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/progress"
)

// Visit ties a module screen to the engine: entering records the module as
// current and starts its point timer, leaving stops the timer.
type Visit struct {
	engine *progress.Engine
	timer  *progress.PointTimer
	module catalog.Module
}

// NewVisit creates a visit for m. timer may be nil.
func NewVisit(engine *progress.Engine, timer *progress.PointTimer, m catalog.Module) *Visit {
	return &Visit{engine: engine, timer: timer, module: m}
}

// Module returns the visited module.
func (v *Visit) Module() catalog.Module { return v.module }

// Engine returns the progression engine.
func (v *Visit) Engine() *progress.Engine { return v.engine }

// Enter marks the module current and starts awarding time points.
func (v *Visit) Enter() {
	v.engine.SetCurrentModule(context.Background(), v.module.ID)
	if v.timer != nil {
		v.timer.Start(v.module.ID)
	}
}

// Leave stops the point timer.
func (v *Visit) Leave() {
	if v.timer != nil {
		v.timer.Stop()
	}
}

// Award adds points for an interaction.
func (v *Visit) Award(n int) progress.AddResult {
	return v.engine.AddPoints(context.Background(), v.module.ID, n)
}

// State returns the module's current progress.
func (v *Visit) State() progress.ModuleState {
	st, _ := v.engine.ModuleState(v.module.ID)
	return st
}

// CompletionFlash describes a completing award, naming the module it
// unlocked if any.
func CompletionFlash(cat *catalog.Catalog, res progress.AddResult) string {
	if m, ok := cat.Lookup(res.Unlocked); ok {
		return "MODULE_COMPLETE · " + m.Title + " UNLOCKED"
	}
	return "MODULE_COMPLETE"
}
