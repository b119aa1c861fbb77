package board

import (
	"fmt"

	"github.com/chazu/tilt/pkg/geom"
)

// ValidationSeverity indicates whether a finding makes a layout unplayable or
// is merely suspicious.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // layout cannot be built sensibly
	SeverityWarning                           // builds, but play may be odd
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes one finding about a lane layout. LaneB is -1 for
// single-lane findings.
type ValidationError struct {
	LaneA    int
	LaneB    int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.LaneB < 0 {
		return fmt.Sprintf("[%s] lane %d: %s", e.Severity, e.LaneA, e.Message)
	}
	return fmt.Sprintf("[%s] lanes %d and %d: %s", e.Severity, e.LaneA, e.LaneB, e.Message)
}

// Validate checks a segment layout for the degenerate inputs Build does not
// handle: zero-length lanes and collinear lanes that overlap. It is read-only
// and meant for level authoring; Build does not call it.
func Validate(segs []geom.Segment, eps float64) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLengths(segs, eps)...)
	errs = append(errs, validateOverlaps(segs, eps)...)
	return errs
}

func validateLengths(segs []geom.Segment, eps float64) []ValidationError {
	var errs []ValidationError
	for i, s := range segs {
		if s.Length() <= eps {
			errs = append(errs, ValidationError{
				LaneA:    i,
				LaneB:    -1,
				Message:  fmt.Sprintf("zero-length lane %s", s),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateOverlaps(segs []geom.Segment, eps float64) []ValidationError {
	var errs []ValidationError
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if geom.Overlap(segs[i], segs[j], eps) {
				errs = append(errs, ValidationError{
					LaneA:    i,
					LaneB:    j,
					Message:  fmt.Sprintf("collinear lanes overlap: %s and %s", segs[i], segs[j]),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}
