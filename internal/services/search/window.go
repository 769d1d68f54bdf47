package search

import "sync"

// role is the min/max side a node plays relative to the searching player
type role uint8

const (
	maximizer role = iota
	minimizer
)

func (r role) other() role {
	if r == maximizer {
		return minimizer
	}
	return maximizer
}

// worst is the starting value of a node
func (r role) worst() int {
	if r == maximizer {
		return -Infinity
	}
	return Infinity
}

// defeat is the score of a node whose side to move has already lost
func (r role) defeat() int {
	if r == maximizer {
		return -WinScore
	}
	return WinScore
}

// improves reports whether score is better than best for this role
func (r role) improves(score, best int) bool {
	if r == maximizer {
		return score > best
	}
	return score < best
}

// Window is the alpha-beta bound pair shared by every node of every root
// worker of one decision. Alpha never decreases and beta never increases.
// Each read-modify-write happens under the mutex, and no caller holds it
// across a recursive call, so a bound tightened in one root branch can cut
// off nodes in a sibling branch that is still being searched.
type Window struct {
	mu    sync.Mutex
	alpha int
	beta  int
}

// NewWindow creates an unbounded window
func NewWindow() *Window {
	return &Window{alpha: -Infinity, beta: Infinity}
}

// Bounds returns a snapshot of the shared bounds
func (w *Window) Bounds() (alpha, beta int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alpha, w.beta
}

// fold checks a node's new best value against the shared bounds and reports
// whether the node can stop exploring children. Otherwise the bound of the
// node's role is tightened to best.
func (w *Window) fold(r role, best int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch r {
	case maximizer:
		if best >= w.beta {
			return true
		}
		w.alpha = max(w.alpha, best)
	case minimizer:
		if best <= w.alpha {
			return true
		}
		w.beta = min(w.beta, best)
	}
	return false
}
