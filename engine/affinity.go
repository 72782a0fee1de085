package engine

import (
	"github.com/lixenwraith/vi-novel/condition"
	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/story"
)

// Affinity is the pair of counters choices push around. Values are never clamped.
type Affinity struct {
	Idealism   int
	Alienation int
}

// Apply adds the choice deltas
func (a *Affinity) Apply(c story.AttributeChanges) {
	a.Idealism += c.Idealism
	a.Alienation += c.Alienation
}

func (a *Affinity) Reset() {
	*a = Affinity{}
}

// Vars binds the counters for condition evaluation
func (a Affinity) Vars() condition.Vars {
	return condition.Vars{
		constants.VarIdealism:   float64(a.Idealism),
		constants.VarAlienation: float64(a.Alienation),
	}
}
