// Package face implements the login-time face-match gate.
//
// The comparison is a byte-level similarity over the encoded images, kept
// compatible with the service it replaces. It is a placeholder for a real
// descriptor-distance check (euclidean distance over face embeddings,
// threshold 0.6); the identity store already persists a descriptor vector for
// that successor.
package face

import (
	"errors"
	"strings"
)

// MatchThreshold is the minimum similarity declared a match.
const MatchThreshold = 0.70

// sampleSize bounds the edit-distance computation on large encoded images.
const sampleSize = 1000

// Result is the gate's decision for one captured image.
type Result struct {
	IsMatch    bool   `json:"isMatch"`
	Confidence int    `json:"confidence"` // percent, 0..100
	Message    string `json:"message"`
}

// Compare scores a freshly captured image against the stored reference.
func Compare(storedImage, capturedImage string) Result {
	stored := stripDataURL(storedImage)
	captured := stripDataURL(capturedImage)

	if stored == "" || captured == "" {
		return Result{IsMatch: false, Confidence: 0, Message: "Invalid image data"}
	}

	similarity := stringSimilarity(stored, captured)
	isMatch := similarity >= MatchThreshold

	msg := "Face does not match"
	if isMatch {
		msg = "Face matched"
	}
	return Result{
		IsMatch:    isMatch,
		Confidence: int(similarity*100 + 0.5),
		Message:    msg,
	}
}

// Gate states.
const (
	StatePending  = "pending"
	StateResolved = "resolved"
)

// ErrResolved is returned when a gate is asked to decide twice.
var ErrResolved = errors.New("face gate already resolved")

// Gate is the two-state verification machine: Pending until a captured image
// arrives, then Resolved (terminal) with the comparison result.
type Gate struct {
	state  string
	result Result
}

func NewGate() *Gate {
	return &Gate{state: StatePending}
}

func (g *Gate) State() string { return g.state }

// Resolve compares the captured image against the reference and moves the
// gate to its terminal state. Calling Resolve again is an error.
func (g *Gate) Resolve(storedImage, capturedImage string) (Result, error) {
	if g.state == StateResolved {
		return g.result, ErrResolved
	}
	g.result = Compare(storedImage, capturedImage)
	g.state = StateResolved
	return g.result, nil
}

// stripDataURL drops a data:image/...;base64, prefix when present.
func stripDataURL(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 && strings.HasPrefix(s, "data:") {
		return s[i+1:]
	}
	return s
}

// stringSimilarity compares fixed-length prefixes of the two payloads with
// normalized edit distance, in [0,1].
func stringSimilarity(a, b string) float64 {
	if len(a) > sampleSize {
		a = a[:sampleSize]
	}
	if len(b) > sampleSize {
		b = b[:sampleSize]
	}

	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if len(longer) == 0 {
		return 1.0
	}

	dist := levenshtein(longer, shorter)
	return float64(len(longer)-dist) / float64(len(longer))
}

func levenshtein(a, b string) int {
	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for j := 0; j <= len(a); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				cur[j] = prev[j-1]
			} else {
				cur[j] = min3(prev[j-1], cur[j-1], prev[j]) + 1
			}
		}
		prev, cur = cur, prev
	}

	return prev[len(a)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
