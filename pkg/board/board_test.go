package board

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chazu/tilt/pkg/geom"
)

// listSegs builds segments from a point list and index pairs.
func listSegs(pts [][2]float64, pairs [][2]int) []geom.Segment {
	segs := make([]geom.Segment, len(pairs))
	for i, p := range pairs {
		a, b := pts[p[0]], pts[p[1]]
		segs[i] = geom.Seg(geom.Pt(a[0], a[1]), geom.Pt(b[0], b[1]))
	}
	return segs
}

func triangleSegs() []geom.Segment {
	return listSegs(
		[][2]float64{{0, -150}, {-200, 0}, {0, 0}, {200, 0}, {200, 100}},
		[][2]int{{0, 1}, {1, 3}, {0, 2}, {0, 3}},
	)
}

// combSegs is a horizontal lane crossed by two vertical lanes at x=10 and
// x=20. Node ids: 0 (0,0), 1 (30,0), 2 (10,0), 3 (20,0), 4 (10,-5),
// 5 (10,5), 6 (20,-5), 7 (20,5).
func combSegs() []geom.Segment {
	return []geom.Segment{
		geom.Seg(geom.Pt(0, 0), geom.Pt(30, 0)),
		geom.Seg(geom.Pt(10, -5), geom.Pt(10, 5)),
		geom.Seg(geom.Pt(20, -5), geom.Pt(20, 5)),
	}
}

func mustBuild(t *testing.T, segs []geom.Segment, balls []int, radius float64) *Board {
	t.Helper()
	b, err := Build(segs, balls, radius)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b
}

func ids(nodes []*Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildTriangle(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0, 1, 2}, 75)

	want := []geom.Point{geom.Pt(0, -150), geom.Pt(-200, 0), geom.Pt(200, 0), geom.Pt(0, 0)}
	if len(b.Nodes) != len(want) {
		t.Fatalf("node count = %d, want %d", len(b.Nodes), len(want))
	}
	for i, p := range want {
		if b.Nodes[i].ID != i {
			t.Errorf("node %d has id %d", i, b.Nodes[i].ID)
		}
		if !geom.Equal(b.Nodes[i].At, p) {
			t.Errorf("node %d at %v, want %v", i, b.Nodes[i].At, p)
		}
	}

	if b.Mass != 3 {
		t.Errorf("mass = %d, want 3", b.Mass)
	}
	if !geom.Equal(b.Center, geom.Pt(0, -50)) {
		t.Errorf("center = %v, want (0,-50)", b.Center)
	}
	if b.LastMoved != nil {
		t.Errorf("last moved = %v, want nil", b.LastMoved)
	}
	if b.HistoryLen() != 0 {
		t.Errorf("history = %d, want 0", b.HistoryLen())
	}
}

func TestBuildLaneOrdering(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0}, 75)

	// Lane 1 runs from (-200,0) to (200,0) through (0,0).
	if got := ids(b.Lanes[1].Nodes); !sameIDs(got, []int{1, 3, 2}) {
		t.Errorf("lane 1 nodes = %v, want [1 3 2]", got)
	}
	// Incidence follows lane traversal order.
	var lanes []int
	for _, l := range b.Nodes[0].Lanes {
		lanes = append(lanes, l.ID)
	}
	if !sameIDs(lanes, []int{0, 2, 3}) {
		t.Errorf("node 0 lanes = %v, want [0 2 3]", lanes)
	}
}

func TestBuildCrossingsBecomeSharedNodes(t *testing.T) {
	b := mustBuild(t, combSegs(), []int{0}, 10)
	if len(b.Nodes) != 8 {
		t.Fatalf("node count = %d, want 8", len(b.Nodes))
	}
	if got := ids(b.Lanes[0].Nodes); !sameIDs(got, []int{0, 2, 3, 1}) {
		t.Errorf("lane 0 nodes = %v, want [0 2 3 1]", got)
	}
	if got := ids(b.Lanes[1].Nodes); !sameIDs(got, []int{4, 2, 5}) {
		t.Errorf("lane 1 nodes = %v, want [4 2 5]", got)
	}
	if n := len(b.Nodes[2].Lanes); n != 2 {
		t.Errorf("crossing node has %d lanes, want 2", n)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(triangleSegs(), nil, 75); !errors.Is(err, ErrNoMass) {
		t.Errorf("empty balls: err = %v, want ErrNoMass", err)
	}
	if _, err := Build(triangleSegs(), []int{0, 9}, 75); !errors.Is(err, ErrBallIndex) {
		t.Errorf("bad index: err = %v, want ErrBallIndex", err)
	}
}

func TestBuildStacksDuplicateBalls(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0, 0}, 75)
	if b.Mass != 2 || b.Nodes[0].Mass != 2 {
		t.Errorf("mass = %d, node 0 mass = %d, want 2 and 2", b.Mass, b.Nodes[0].Mass)
	}
}

func TestLegalDestinationsTriangle(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0, 1, 2}, 75)

	tests := []struct {
		node int
		want []int
	}{
		{0, []int{3}},
		{1, []int{3}},
		{2, []int{3}},
		{3, nil},
	}
	for _, tt := range tests {
		got := ids(b.LegalDestinations(b.Nodes[tt.node]))
		if !sameIDs(got, tt.want) {
			t.Errorf("LegalDestinations(%d) = %v, want %v", tt.node, got, tt.want)
		}
	}

	// Lane 0 joins nodes 0 and 1, both occupied: nothing along it.
	for _, n := range b.LegalDestinations(b.Nodes[0]) {
		if b.Lanes[0].indexOf(n) >= 0 {
			t.Errorf("node %d reachable along blocked lane 0", n.ID)
		}
	}
}

func TestLegalDestinationsSlidesAcrossEmptyNodes(t *testing.T) {
	b := mustBuild(t, combSegs(), []int{0}, 10)
	if got := ids(b.LegalDestinations(b.Nodes[0])); !sameIDs(got, []int{2, 3, 1}) {
		t.Errorf("LegalDestinations(0) = %v, want [2 3 1]", got)
	}
}

func TestLegalDestinationsNoJumping(t *testing.T) {
	b := mustBuild(t, combSegs(), []int{0, 3}, 10)
	if got := ids(b.LegalDestinations(b.Nodes[0])); !sameIDs(got, []int{2}) {
		t.Errorf("LegalDestinations(0) = %v, want [2]", got)
	}
	if b.IsLegal(b.Nodes[0], b.Nodes[1]) {
		t.Error("jump from 0 over 3 to 1 accepted")
	}
	// Node 3 sits on lanes 0 and 2: backward to 2 (then blocked by 0),
	// forward to 1, and both ends of lane 2.
	if got := ids(b.LegalDestinations(b.Nodes[3])); !sameIDs(got, []int{1, 2, 7, 6}) {
		t.Errorf("LegalDestinations(3) = %v, want [1 2 7 6]", got)
	}
}

func TestLegalDestinationsDeduplicates(t *testing.T) {
	segs := []geom.Segment{
		geom.Seg(geom.Pt(0, 0), geom.Pt(10, 0)),
		geom.Seg(geom.Pt(0, 0), geom.Pt(10, 0)),
	}
	b := mustBuild(t, segs, []int{0}, 1)
	if got := ids(b.LegalDestinations(b.Nodes[0])); !sameIDs(got, []int{1}) {
		t.Errorf("LegalDestinations(0) = %v, want [1]", got)
	}
}

func TestEmptyNodeHasNoDestinations(t *testing.T) {
	b := mustBuild(t, combSegs(), []int{0}, 10)
	for _, n := range b.Nodes {
		if n.Mass != 0 {
			continue
		}
		if got := b.LegalDestinations(n); len(got) != 0 {
			t.Errorf("empty node %d has destinations %v", n.ID, ids(got))
		}
	}
}

func TestApply(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0, 1, 2}, 75)
	from, to := b.Nodes[0], b.Nodes[3]
	b.Apply(from, to)

	if from.Mass != 0 || to.Mass != 1 {
		t.Errorf("masses after apply: from=%d to=%d", from.Mass, to.Mass)
	}
	if b.LastMoved != to {
		t.Errorf("last moved = %v, want node 3", b.LastMoved)
	}
	if !geom.Equal(b.Center, geom.Pt(0, 0)) {
		t.Errorf("center = %v, want (0,0)", b.Center)
	}
}

func TestProjectedCentroidMatchesApply(t *testing.T) {
	layouts := []struct {
		name  string
		segs  []geom.Segment
		balls []int
	}{
		{"triangle", triangleSegs(), []int{0, 1, 2}},
		{"comb", combSegs(), []int{0, 5, 6}},
		{"stacked", combSegs(), []int{0, 0, 7}},
	}
	for _, tt := range layouts {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuild(t, tt.segs, tt.balls, 10)
			for _, from := range b.Occupied() {
				for _, to := range b.LegalDestinations(from) {
					before := b.State()
					projected := b.ProjectedCentroid(from, to.At)
					b.Apply(from, to)
					if !geom.EqualWithin(projected, b.Center, 1e-9) {
						t.Errorf("move %d->%d: projected %v, actual %v", from.ID, to.ID, projected, b.Center)
					}
					b.Restore(before)
				}
			}
		})
	}
}

func TestMassConservation(t *testing.T) {
	b := mustBuild(t, combSegs(), []int{0, 5, 6}, 10)
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 200; step++ {
		var froms []*Node
		for _, n := range b.Occupied() {
			if len(b.LegalDestinations(n)) > 0 {
				froms = append(froms, n)
			}
		}
		if len(froms) == 0 {
			t.Fatalf("step %d: no legal moves", step)
		}
		from := froms[rng.Intn(len(froms))]
		dests := b.LegalDestinations(from)
		b.Apply(from, dests[rng.Intn(len(dests))])

		total := 0
		for _, n := range b.Nodes {
			total += n.Mass
		}
		if total != b.Mass {
			t.Fatalf("step %d: total mass %d, want %d", step, total, b.Mass)
		}
	}
}

func TestTipped(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0, 1, 2}, 75)
	if b.Tipped() {
		t.Errorf("centroid %v within radius 75 reported as tipped", b.Center)
	}
	b.StableRadius = 49
	if !b.Tipped() {
		t.Errorf("centroid %v outside radius 49 not reported as tipped", b.Center)
	}
	b.StableRadius = 50
	if b.Tipped() {
		t.Error("centroid exactly on the radius must not tip")
	}
}

func TestNodeAt(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0}, 75)
	if n := b.NodeAt(geom.Pt(10, 5), 45); n == nil || n.ID != 3 {
		t.Errorf("NodeAt near origin = %v, want node 3", n)
	}
	if n := b.NodeAt(geom.Pt(100, 100), 45); n != nil {
		t.Errorf("NodeAt far away = node %d, want nil", n.ID)
	}
}

func TestString(t *testing.T) {
	b := mustBuild(t, triangleSegs(), []int{0, 1, 2}, 75)
	if got := b.String(); got != "1110|-" {
		t.Errorf("String() = %q, want %q", got, "1110|-")
	}
	b.Apply(b.Nodes[0], b.Nodes[3])
	if got := b.String(); got != "0111|3" {
		t.Errorf("String() = %q, want %q", got, "0111|3")
	}
}
