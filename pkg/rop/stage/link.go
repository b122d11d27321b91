package stage

import (
	"bytes"
	"fmt"
)

// Link forwards every output of up into down. Completing up completes down
// once up has drained, and cancelling or failing either side cancels the
// other. Links are fixed before the first item: once either stage accepted
// an item, was completed or was cancelled, Link returns ErrAlreadyStarted.
// A stage has at most one successor and one predecessor.
func Link[A, B, C any](up *Stage[A, B], down *Stage[B, C]) error {
	if any(up) == any(down) || reaches(down, up) {
		return fmt.Errorf("link %q -> %q: %w", up.name, down.name, ErrCycle)
	}

	first, second := &up.mu, &down.mu
	if bytes.Compare(down.id[:], up.id[:]) < 0 {
		first, second = second, first
	}
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	switch {
	case up.startedLocked() || down.startedLocked():
		return fmt.Errorf("link %q -> %q: %w", up.name, down.name, ErrAlreadyStarted)
	case up.next != nil || down.upstream != nil:
		return fmt.Errorf("link %q -> %q: %w", up.name, down.name, ErrAlreadyLinked)
	}

	up.next = down
	up.downstream = down
	down.upstream = up
	return nil
}

func reaches(from, target peer) bool {
	for p := from; p != nil; p = p.successor() {
		if p == target {
			return true
		}
	}
	return false
}
