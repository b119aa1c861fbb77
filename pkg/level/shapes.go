package level

import (
	"fmt"
	"math"

	"github.com/chazu/tilt/pkg/geom"
)

func fromAngle(a, r float64) geom.Point {
	return geom.Pt(math.Cos(a)*r, math.Sin(a)*r)
}

// StarPoints returns the vertices of a regular polygon of radius r, starting
// at the bottom (+y) and proceeding clockwise on screen.
func StarPoints(sides int, r float64) []geom.Point {
	pts := make([]geom.Point, sides)
	for i := range pts {
		pts[i] = fromAngle(math.Pi*(2/float64(sides)*float64(i)+0.5), r)
	}
	return pts
}

// StarSegments connects every vertex of StarPoints(sides, r) to the vertex
// step places further on. Step 1 is the polygon outline, step 2 on five
// sides is a pentagram.
func StarSegments(sides int, r float64, step int) []geom.Segment {
	pts := StarPoints(sides, r)
	segs := make([]geom.Segment, sides)
	for i, p := range pts {
		segs[i] = geom.Seg(p, pts[(i+step)%sides])
	}
	return segs
}

// ListSegments builds one segment per index pair into pts.
func ListSegments(pts []geom.Point, pairs [][2]int) ([]geom.Segment, error) {
	segs := make([]geom.Segment, len(pairs))
	for i, p := range pairs {
		for _, idx := range p {
			if idx < 0 || idx >= len(pts) {
				return nil, fmt.Errorf("segment %d: point index %d out of range (%d points)", i, idx, len(pts))
			}
		}
		segs[i] = geom.Seg(pts[p[0]], pts[p[1]])
	}
	return segs, nil
}

// Grid returns cols vertical and rows horizontal segments spaced size apart
// and centred on the origin. Columns come first.
func Grid(cols, rows int, size float64) []geom.Segment {
	cx := size * float64(cols-1) / 2
	cy := size * float64(rows-1) / 2
	segs := make([]geom.Segment, 0, cols+rows)
	for i := 0; i < cols; i++ {
		x := float64(i)*size - cx
		segs = append(segs, geom.Seg(geom.Pt(x, -cy), geom.Pt(x, cy)))
	}
	for i := 0; i < rows; i++ {
		y := float64(i)*size - cy
		segs = append(segs, geom.Seg(geom.Pt(-cx, y), geom.Pt(cx, y)))
	}
	return segs
}
