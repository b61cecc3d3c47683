package sokoban

import (
	"regexp"
	"strings"
)

// Level is the validated, immutable description of a puzzle: board
// geometry, walls, goals, box starting positions and the pusher's
// starting cell, all in internal (row-major, untransformed) coordinates.
// It is the host's only contract toward the core on the way in (§1): the
// host parses its own file format into external coordinates, applies
// Transform.ToInternal, and hands the result to ParseLevel or builds a
// Level directly.
type Level struct {
	Width, Height int
	Wall          []bool // size Width*Height
	Goal          []bool
	Box           []int // initial box cells, unsorted
	Pusher        int
	Display       Transform // the preamble's rotation/mirror, display-only
}

// preamble matches the §6 grammar:
//
//	View: Rotated {0|90|180|270} degrees clockwise[, flipped horizontally].
//
// Anchored and strict by design (spec.md Open Question #1): a naive
// substring search for "180" would also match inside some other token,
// and the rotation token " 0" could be confused with a plain zero
// elsewhere in the line. A grammar sidesteps both.
var preamble = regexp.MustCompile(`^View: Rotated (0|90|180|270) degrees clockwise(, flipped horizontally)?\.$`)

var xsbChars = map[rune]struct {
	wall, goal, box, pusher bool
}{
	' ': {},
	'#': {wall: true},
	'$': {box: true},
	'.': {goal: true},
	'@': {pusher: true},
	'+': {pusher: true, goal: true},
	'*': {box: true, goal: true},
}

// ParseLevel ingests an XSB-style text block (§6), padding short lines
// with spaces and recognizing an optional rotation/mirror preamble. It
// never panics: malformed input is reported as an *Error with
// Kind == KindInvalidLevel.
func ParseLevel(text string) (*Level, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	transform := Identity()
	body := lines
	for len(body) > 0 && preamble.MatchString(strings.TrimSpace(body[0])) {
		m := preamble.FindStringSubmatch(strings.TrimSpace(body[0]))
		transform = parseTransform(m[1], m[2] != "")
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}

	width := 0
	for _, line := range body {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	height := len(body)
	if width == 0 || height == 0 {
		return nil, invalidLevel(ViolationNonRectangular, "empty level")
	}

	lvl := &Level{Width: width, Height: height, Display: transform}
	lvl.Wall = make([]bool, width*height)
	lvl.Goal = make([]bool, width*height)
	pusherCount := 0
	boxCount, goalCount := 0, 0
	for y, line := range body {
		runes := []rune(line)
		for x := 0; x < width; x++ {
			var r rune = ' '
			if x < len(runes) {
				r = runes[x]
			}
			spec, ok := xsbChars[r]
			if !ok {
				return nil, invalidLevel(ViolationNonRectangular, "unrecognized character %q at row %d col %d", r, y, x)
			}
			cell := y*width + x
			lvl.Wall[cell] = spec.wall
			if spec.goal {
				lvl.Goal[cell] = true
				goalCount++
			}
			if spec.box {
				lvl.Box = append(lvl.Box, cell)
				boxCount++
			}
			if spec.pusher {
				pusherCount++
				lvl.Pusher = cell
			}
		}
	}

	if pusherCount == 0 {
		return nil, invalidLevel(ViolationNoPusher, "no pusher cell found")
	}
	if pusherCount > 1 {
		return nil, invalidLevel(ViolationMultiplePushers, "found %d pusher cells, expected 1", pusherCount)
	}
	if boxCount != goalCount || boxCount == 0 {
		return nil, invalidLevel(ViolationBoxGoalCountMismatch, "boxes=%d goals=%d", boxCount, goalCount)
	}
	return lvl, nil
}

func parseTransform(rot string, flip bool) Transform {
	var r Rotation
	switch rot {
	case "90":
		r = Rot90
	case "180":
		r = Rot180
	case "270":
		r = Rot270
	default:
		r = Rot0
	}
	m := MirrorNone
	if flip {
		m = MirrorHorizontal
	}
	return Transform{Rotation: r, Mirror: m}
}
