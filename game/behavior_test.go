package game

import (
	"testing"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/vmath"
)

func TestGoldPairingIsMutual(t *testing.T) {
	g := newTestGame(t)

	a := spawnSolid(g, components.KindGold, 300, 300, 20)
	b := spawnSolid(g, components.KindGold, 400, 300, 20)

	g.Step(testDT)

	ga, gb := g.goldMap.Get(a), g.goldMap.Get(b)
	if !ga.HasPair || !gb.HasPair {
		t.Fatalf("golds in range should pair: a=%v b=%v", ga.HasPair, gb.HasPair)
	}
	if ga.Pair != b || gb.Pair != a {
		t.Error("pair references are not mutual")
	}
}

func TestLoneGoldNeverPairs(t *testing.T) {
	g := newTestGame(t)
	e := spawnSolid(g, components.KindGold, 300, 300, 20)

	for i := 0; i < 120; i++ {
		g.Step(testDT)
		if g.goldMap.Get(e).HasPair {
			t.Fatalf("lone gold paired at step %d", i)
		}
	}
}

func TestGoldOutOfRangeDoesNotPair(t *testing.T) {
	g := newTestGame(t)

	// Pair range is pair_range_factor * radius; place them beyond it.
	radius := 20.0
	rangePx := g.cfg.Gold.PairRangeFactor * radius
	a := spawnSolid(g, components.KindGold, 100, 300, radius)
	b := spawnSolid(g, components.KindGold, 100+rangePx+40, 300, radius)

	g.Step(testDT)

	if g.goldMap.Get(a).HasPair || g.goldMap.Get(b).HasPair {
		t.Error("golds beyond pair range should not pair")
	}
}

func TestGoldPairSpringPullsTogether(t *testing.T) {
	g := newTestGame(t)

	a := spawnSolid(g, components.KindGold, 300, 300, 20)
	b := spawnSolid(g, components.KindGold, 440, 300, 20)

	g.Step(testDT)

	av, bv := g.velMap.Get(a), g.velMap.Get(b)
	if av.Cur.X <= 0 {
		t.Errorf("left gold should be pulled right, vx = %v", av.Cur.X)
	}
	if bv.Cur.X >= 0 {
		t.Errorf("right gold should be pulled left, vx = %v", bv.Cur.X)
	}
}

func TestGoldUnpairsWhenPartnerDies(t *testing.T) {
	g := newTestGame(t)

	a := spawnSolid(g, components.KindGold, 300, 300, 20)
	b := spawnSolid(g, components.KindGold, 400, 300, 20)

	g.Step(testDT)
	if !g.goldMap.Get(a).HasPair {
		t.Fatal("precondition: golds should have paired")
	}

	// Gold accepts kills from a blackhole collision.
	bh := spawnSolid(g, components.KindBlackhole, 600, 600, 20)
	g.killBubble(b, KillReason{Kind: ReasonBubble, Other: bh})
	if !g.bubMap.Get(b).Dying {
		t.Fatal("precondition: partner should be dying")
	}

	g.Step(testDT)

	if g.goldMap.Get(a).HasPair {
		t.Error("gold should unpair from a dying partner")
	}
}

func TestBlackholeAbsorbsCollisionsAndGrows(t *testing.T) {
	g := newTestGame(t)

	bh := spawnSolid(g, components.KindBlackhole, 300, 300, 20)
	prey := spawnSolid(g, components.KindNormal, 330, 300, 20)

	before := g.bubMap.Get(bh).TargetRadius
	g.Step(testDT)

	bhB := g.bubMap.Get(bh)
	if bhB.Dying {
		t.Fatal("blackhole must not die from a bubble collision")
	}
	want := before + g.cfg.Blackhole.RadiusIncrement
	if bhB.TargetRadius != want {
		t.Errorf("target radius = %v, want %v", bhB.TargetRadius, want)
	}
	if !g.bubMap.Get(prey).Dying {
		t.Error("the other bubble should die in the collision")
	}
}

func TestBlackholePullsDistantBubbles(t *testing.T) {
	g := newTestGame(t)

	spawnSolid(g, components.KindBlackhole, 300, 300, 20)
	far := spawnSolid(g, components.KindNormal, 600, 300, 20)

	g.Step(testDT)

	v := g.velMap.Get(far)
	if v.Cur.X >= 0 {
		t.Errorf("bubble should be pulled toward the hole, vx = %v", v.Cur.X)
	}
}

func TestBlackholeDoesNotPullAntivirus(t *testing.T) {
	g := newTestGame(t)

	spawnSolid(g, components.KindBlackhole, 300, 300, 20)
	av := spawnSolid(g, components.KindAntiVirus, 600, 300, 20)

	g.Step(testDT)

	v := g.velMap.Get(av)
	if v.Cur.X != 0 {
		t.Errorf("antivirus should be exempt from the pull, vx = %v", v.Cur.X)
	}
}

func TestVirusChasesSlowestPrey(t *testing.T) {
	g := newTestGame(t)

	virus := spawnSolid(g, components.KindVirus, 300, 300, 20)

	slow := spawnSolid(g, components.KindNormal, 600, 200, 15)
	fast := spawnSolid(g, components.KindNormal, 600, 400, 15)
	g.velMap.Get(fast).Cur = vmath.Vec2{X: 100}

	g.Step(testDT)

	v := g.virusMap.Get(virus)
	if !v.HasTarget {
		t.Fatal("virus should have picked a target")
	}
	if v.Target != slow {
		t.Error("virus should chase the slowest eligible prey")
	}
	if lock, ok := g.virusLocks[slow]; !ok || lock != virus {
		t.Error("virus should hold the lock on its prey")
	}
}

func TestVirusLockIsExclusive(t *testing.T) {
	g := newTestGame(t)

	v1 := spawnSolid(g, components.KindVirus, 200, 300, 20)
	v2 := spawnSolid(g, components.KindVirus, 400, 300, 20)
	prey := spawnSolid(g, components.KindNormal, 300, 500, 15)

	g.Step(testDT)

	holder, ok := g.virusLocks[prey]
	if !ok {
		t.Fatal("prey should be locked")
	}
	var other *components.Virus
	if holder == v1 {
		other = g.virusMap.Get(v2)
	} else {
		other = g.virusMap.Get(v1)
	}
	if other.HasTarget {
		t.Error("second virus should be excluded from the locked prey")
	}
}

func TestVirusStarvationSuicide(t *testing.T) {
	g := newTestGame(t)
	virus := spawnSolid(g, components.KindVirus, 300, 300, 20)

	timeout := g.cfg.Virus.SuicideTimeout
	dying := g.cfg.Bubble.DyingDuration
	steps := int((timeout+dying)/testDT) + 10

	for i := 0; i < steps; i++ {
		g.Step(testDT)
	}

	if g.world.Alive(virus) {
		t.Error("starved virus should have suicided and been pruned")
	}
}

func TestVirusIgnoresPredators(t *testing.T) {
	g := newTestGame(t)

	virus := spawnSolid(g, components.KindVirus, 300, 300, 20)
	spawnSolid(g, components.KindBlackhole, 500, 300, 20)
	spawnSolid(g, components.KindAntiVirus, 300, 500, 20)

	g.Step(testDT)

	if g.virusMap.Get(virus).HasTarget {
		t.Error("virus should not hunt blackholes or antiviruses")
	}
}

func TestVirusDiesOnAntivirusContact(t *testing.T) {
	g := newTestGame(t)

	av := spawnSolid(g, components.KindAntiVirus, 300, 300, 20)
	virus := spawnSolid(g, components.KindVirus, 330, 300, 20)

	g.Step(testDT)

	if !g.bubMap.Get(virus).Dying {
		t.Error("virus overlapping an antivirus should die")
	}
	if g.bubMap.Get(av).Dying {
		t.Error("antivirus should survive contact with a virus")
	}
}

func TestAntivirusDispatchAndIntercept(t *testing.T) {
	g := newTestGame(t)

	av := spawnSolid(g, components.KindAntiVirus, 300, 300, 25)
	virus := spawnSolid(g, components.KindVirus, 400, 300, 20)
	// Prey far away keeps the virus from starving during the test.
	prey := spawnSolid(g, components.KindNormal, 1000, 600, 15)
	_ = prey

	avState := g.avMap.Get(av)
	count := g.cfg.AntiVirus.AntibodyCount
	if avState.Remaining != count {
		t.Fatalf("antivirus should start with %d antibodies, got %d", count, avState.Remaining)
	}

	// Wait out the initial cooldown plus flight time.
	steps := int(g.cfg.AntiVirus.Cooldown/testDT) + 240
	virusDied := false
	for i := 0; i < steps; i++ {
		g.Step(testDT)
		if !g.world.Alive(virus) {
			virusDied = true
			break
		}
		if b := g.bubMap.Get(virus); b != nil && b.Dying {
			virusDied = true
			break
		}
	}

	if !virusDied {
		t.Fatal("antibody should have intercepted the virus")
	}
	if avState.Remaining >= count {
		t.Error("dispatch should have consumed an antibody from the pool")
	}
}

func TestAntivirusPoolExhaustionSuicide(t *testing.T) {
	g := newTestGame(t)
	av := spawnSolid(g, components.KindAntiVirus, 300, 300, 25)

	st := g.avMap.Get(av)
	st.Remaining = 0
	st.Pending = 0

	g.Step(testDT)

	if !g.bubMap.Get(av).Dying {
		t.Error("antivirus with an exhausted pool should suicide")
	}
}

func TestForceMultiplierRules(t *testing.T) {
	g := newTestGame(t)

	normal := spawnSolid(g, components.KindNormal, 100, 100, 20)
	virus := spawnSolid(g, components.KindVirus, 200, 100, 20)
	goldA := spawnSolid(g, components.KindGold, 300, 100, 20)
	goldB := spawnSolid(g, components.KindGold, 380, 100, 20)

	g.Step(testDT) // lets the golds pair

	base := g.cfg.Bubble.BaseForce
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"normal vs normal", g.forceMultiplier(normal, components.KindNormal, goldA, components.KindGold), base},
		{"virus exempt", g.forceMultiplier(normal, components.KindNormal, virus, components.KindVirus), 0},
		{"paired golds exempt", g.forceMultiplier(goldA, components.KindGold, goldB, components.KindGold), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: multiplier = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
