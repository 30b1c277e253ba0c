// Package grid is the cellular-automaton collaborator behind gridview.exe:
// Conway's rule (B3/S23) on an unbounded plane, loaded from '.'/'O' text.
package grid

import (
	"fmt"
	"sort"
	"strings"
)

type cell struct{ x, y int }

type board map[cell]struct{}

// Session holds the current pattern and the generations behind it.
type Session struct {
	cur     board
	history []board
}

// Measurement summarises recent evolution.
type Measurement struct {
	Period     *int
	Heat       float64
	Volatility float64
	Speed      *string
}

// NewSession loads text as generation 0.
func NewSession(text string) *Session {
	s := &Session{}
	s.Load(text)
	return s
}

// Load replaces the pattern and forgets history. 'O', 'o', '*' and '#' are alive.
func (s *Session) Load(text string) {
	b := board{}
	for y, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		for x, ch := range line {
			switch ch {
			case 'O', 'o', '*', '#':
				b[cell{x, y}] = struct{}{}
			}
		}
	}
	s.cur = b
	s.history = nil
}

// Generation counts steps since Load.
func (s *Session) Generation() int { return len(s.history) }

// Population counts live cells.
func (s *Session) Population() int { return len(s.cur) }

// Next advances one generation and renders it.
func (s *Session) Next() string {
	s.history = append(s.history, s.cur)
	s.cur = step(s.cur)
	return s.frame()
}

// Prev steps back one generation if there is one.
func (s *Session) Prev() string {
	if len(s.history) == 0 {
		return "Already at generation 0.\n" + s.Render()
	}
	s.cur = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return s.frame()
}

func (s *Session) frame() string {
	return fmt.Sprintf("Gen %d | pop %d\n%s", s.Generation(), s.Population(), s.Render())
}

// Render draws the bounding box of live cells.
func (s *Session) Render() string {
	if len(s.cur) == 0 {
		return "."
	}
	minX, minY, maxX, maxY := bounds(s.cur)
	var sb strings.Builder
	for y := minY; y <= maxY; y++ {
		if y > minY {
			sb.WriteByte('\n')
		}
		for x := minX; x <= maxX; x++ {
			if _, ok := s.cur[cell{x, y}]; ok {
				sb.WriteByte('O')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Measure looks back at most window generations.
func (s *Session) Measure(window int) Measurement {
	var m Measurement
	if window <= 0 {
		window = 10
	}
	timeline := append(append([]board{}, s.history...), s.cur)
	if len(timeline) > window+1 {
		timeline = timeline[len(timeline)-window-1:]
	}

	last := len(timeline) - 1
	for p := 1; p <= last; p++ {
		if dx, dy, ok := sameShape(timeline[last-p], timeline[last]); ok {
			period := p
			m.Period = &period
			if dx != 0 || dy != 0 {
				speed := speedNotation(dx, dy, p)
				m.Speed = &speed
			}
			break
		}
	}

	if last == 0 {
		return m
	}
	changed, pop := 0, 0
	for i := 1; i <= last; i++ {
		changed += diff(timeline[i-1], timeline[i])
		pop += len(timeline[i])
	}
	m.Heat = float64(changed) / float64(last)
	if pop > 0 {
		m.Volatility = float64(changed) / float64(pop)
	}
	return m
}

func step(b board) board {
	counts := map[cell]int{}
	for c := range b {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				counts[cell{c.x + dx, c.y + dy}]++
			}
		}
	}
	next := board{}
	for c, n := range counts {
		_, alive := b[c]
		if n == 3 || (alive && n == 2) {
			next[c] = struct{}{}
		}
	}
	return next
}

func bounds(b board) (minX, minY, maxX, maxY int) {
	first := true
	for c := range b {
		if first {
			minX, maxX, minY, maxY = c.x, c.x, c.y, c.y
			first = false
			continue
		}
		minX, maxX = min(minX, c.x), max(maxX, c.x)
		minY, maxY = min(minY, c.y), max(maxY, c.y)
	}
	return
}

// sameShape reports whether b is a translate of a, and by how much.
func sameShape(a, b board) (dx, dy int, ok bool) {
	if len(a) != len(b) {
		return 0, 0, false
	}
	if len(a) == 0 {
		return 0, 0, true
	}
	ax, ay, _, _ := bounds(a)
	bx, by, _, _ := bounds(b)
	dx, dy = bx-ax, by-ay
	for c := range a {
		if _, found := b[cell{c.x + dx, c.y + dy}]; !found {
			return 0, 0, false
		}
	}
	return dx, dy, true
}

func diff(a, b board) int {
	n := 0
	for c := range a {
		if _, ok := b[c]; !ok {
			n++
		}
	}
	for c := range b {
		if _, ok := a[c]; !ok {
			n++
		}
	}
	return n
}

func speedNotation(dx, dy, period int) string {
	adx, ady := abs(dx), abs(dy)
	k := max(adx, ady)
	direction := "orthogonal"
	if adx != 0 && ady != 0 {
		direction = "diagonal"
	}
	g := gcd(k, period)
	k, period = k/g, period/g
	if k == 1 {
		return fmt.Sprintf("c/%d (%s)", period, direction)
	}
	return fmt.Sprintf("%dc/%d (%s)", k, period, direction)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// cells lists live cells in reading order; tests use it to compare boards.
func (s *Session) cells() [][2]int {
	out := make([][2]int, 0, len(s.cur))
	for c := range s.cur {
		out = append(out, [2]int{c.x, c.y})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}
