package geometry

import (
	"strconv"
	"strings"
)

// Op is a path command letter.
type Op byte

const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpHoriz Op = 'H'
	OpVert  Op = 'V'
	OpArc   Op = 'A'
	OpClose Op = 'Z'
)

// Segment is one absolute path command. R is only used by arcs.
type Segment struct {
	Op   Op
	X, Y float64
	R    float64
}

// Path is an ordered list of segments, serialized to SVG path data by String.
type Path []Segment

func (p *Path) MoveTo(x, y float64) { *p = append(*p, Segment{Op: OpMove, X: x, Y: y}) }

func (p *Path) LineTo(x, y float64) { *p = append(*p, Segment{Op: OpLine, X: x, Y: y}) }

func (p *Path) HorizontalTo(x float64) { *p = append(*p, Segment{Op: OpHoriz, X: x}) }

func (p *Path) VerticalTo(y float64) { *p = append(*p, Segment{Op: OpVert, Y: y}) }

// ArcTo draws a clockwise quarter-circle corner of radius r ending at (x, y).
func (p *Path) ArcTo(r, x, y float64) { *p = append(*p, Segment{Op: OpArc, X: x, Y: y, R: r}) }

func (p *Path) Close() { *p = append(*p, Segment{Op: OpClose}) }

// Contains reports whether the path has a segment equal to s.
func (p Path) Contains(s Segment) bool {
	for _, seg := range p {
		if seg == s {
			return true
		}
	}
	return false
}

// String serializes the path, e.g. "M 0 4 A 4 4 0 0 1 4 0 H 116 ... Z".
func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, s := range p {
		switch s.Op {
		case OpMove, OpLine:
			parts = append(parts, string(s.Op)+" "+num(s.X)+" "+num(s.Y))
		case OpHoriz:
			parts = append(parts, "H "+num(s.X))
		case OpVert:
			parts = append(parts, "V "+num(s.Y))
		case OpArc:
			parts = append(parts, "A "+num(s.R)+" "+num(s.R)+" 0 0 1 "+num(s.X)+" "+num(s.Y))
		case OpClose:
			parts = append(parts, "Z")
		}
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
