package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
)

// prune removes entities whose death animation has finished. Removal is
// staged: doomed entities are collected from a completed query first, then
// removed, so the world is never mutated mid-iteration.
func (g *Game) prune() {
	var doomed []ecs.Entity

	query := g.bubbleFilter.Query()
	for query.Next() {
		_, _, b := query.Get()
		if b.Dead() {
			doomed = append(doomed, query.Entity())
		}
	}

	abQuery := g.abFilter.Query()
	for abQuery.Next() {
		_, ab := abQuery.Get()
		if ab.State == components.AntibodyDead {
			doomed = append(doomed, abQuery.Entity())
		}
	}

	for _, e := range doomed {
		g.beforeRemove(e)
		g.world.RemoveEntity(e)
	}
}

// beforeRemove severs every reference the rest of the world may hold to the
// entity: gold pairings, virus locks, antivirus claims and antibody pools.
// References use liveness checks as a backstop, but eager cleanup keeps the
// side tables from accumulating dead keys.
func (g *Game) beforeRemove(e ecs.Entity) {
	if b := g.bubMap.Get(e); b != nil {
		switch b.Kind {
		case components.KindGold:
			g.unpairGold(e)
		case components.KindVirus:
			if virus := g.virusMap.Get(e); virus != nil && virus.HasTarget {
				g.releaseVirusLock(e, virus)
			}
		case components.KindAntiVirus:
			g.groundAntibodies(e)
		}
	}

	// The entity may itself be prey or a claimed target.
	delete(g.virusLocks, e)
	g.releaseMark(e)
}

// groundAntibodies ends the flights of a removed antivirus's antibodies.
// Their entities linger one frame with State Dead and are pruned next pass.
func (g *Game) groundAntibodies(parent ecs.Entity) {
	query := g.abFilter.Query()
	for query.Next() {
		_, ab := query.Get()
		if ab.Parent != parent || ab.State == components.AntibodyDead {
			continue
		}
		if ab.State == components.AntibodyDispatched {
			g.releaseMark(ab.Target)
		}
		ab.State = components.AntibodyDead
	}
}
