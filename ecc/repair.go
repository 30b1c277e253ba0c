// Package ecc recovers a single unknown letter of a field message from the
// modular letter checksums transmitted alongside it.
package ecc

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Modulus applied to every checksum group.
const Modulus = 256

var (
	ErrMalformedInput        = errors.New("expected message line and checksum line")
	ErrMalformedChecksumLine = errors.New("checksum line not in expected format")
	ErrAmbiguousUnknownCount = errors.New("this tool recovers exactly one unknown '?'")
)

var checksumRe = regexp.MustCompile(`ALL=(\d+),\s*ODD=(\d+),\s*EVEN=(\d+),\s*MOD3_0=(\d+),\s*MOD3_1=(\d+),\s*MOD3_2=(\d+)`)

// Checksums are the six letter sums, each mod 256. Letters are indexed 1..N;
// ODD/EVEN split on index parity and MOD3_k takes (index-1)%3 == k.
type Checksums struct {
	All  int
	Odd  int
	Even int
	Mod3 [3]int
}

// String renders the canonical checksum line.
func (c Checksums) String() string {
	return fmt.Sprintf("ALL=%d, ODD=%d, EVEN=%d, MOD3_0=%d, MOD3_1=%d, MOD3_2=%d",
		c.All, c.Odd, c.Even, c.Mod3[0], c.Mod3[1], c.Mod3[2])
}

// ParseChecksums extracts the six fields from a checksum line.
func ParseChecksums(line string) (Checksums, error) {
	m := checksumRe.FindStringSubmatch(line)
	if m == nil {
		return Checksums{}, ErrMalformedChecksumLine
	}
	var v [6]int
	for i := range v {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Checksums{}, fmt.Errorf("%w: %v", ErrMalformedChecksumLine, err)
		}
		v[i] = n
	}
	return Checksums{All: v[0], Odd: v[1], Even: v[2], Mod3: [3]int{v[3], v[4], v[5]}}, nil
}

// Compute sums the letters of message into all six groups.
func Compute(message string) Checksums {
	var c Checksums
	idx := 0
	for i := 0; i < len(message); i++ {
		ch := message[i]
		if !isLetter(ch) {
			continue
		}
		idx++
		v := int(ch)
		c.All += v
		if idx%2 == 1 {
			c.Odd += v
		} else {
			c.Even += v
		}
		c.Mod3[(idx-1)%3] += v
	}
	c.All %= Modulus
	c.Odd %= Modulus
	c.Even %= Modulus
	for k := range c.Mod3 {
		c.Mod3[k] %= Modulus
	}
	return c
}

// Result of a repair.
type Result struct {
	Repaired  string
	Recovered rune
	ASCII     int
	// Target holds every parsed field. Only All takes part in recovery.
	Target   Checksums
	Verified bool
}

// Repair takes a message line with exactly one '?' among its letters and a
// checksum line, and fills the '?' from the ALL checksum.
func Repair(input string) (Result, error) {
	lines := strings.Split(strings.TrimRight(input, " \t\r\n"), "\n")
	if len(lines) < 2 {
		return Result{}, ErrMalformedInput
	}
	msg := strings.TrimSuffix(lines[0], "\r")
	target, err := ParseChecksums(lines[1])
	if err != nil {
		return Result{}, err
	}

	unknown := -1
	count := 0
	known := 0
	for i := 0; i < len(msg); i++ {
		switch ch := msg[i]; {
		case ch == '?':
			unknown = i
			count++
		case isLetter(ch):
			known += int(ch)
		}
	}
	if count != 1 {
		return Result{}, ErrAmbiguousUnknownCount
	}

	missing := (target.All - known%Modulus) % Modulus
	if missing < 0 {
		missing += Modulus
	}
	recovered := rune(missing)

	return Result{
		Repaired:  msg[:unknown] + string(recovered) + msg[unknown+1:],
		Recovered: recovered,
		ASCII:     missing,
		Target:    target,
		Verified:  true,
	}, nil
}

func isLetter(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}
