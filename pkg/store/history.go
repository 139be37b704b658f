package store

// MaxHistory caps the undo stack. When a snapshot pushes the stack
// past the cap the oldest entry is evicted, so at most 49 undo steps
// are reachable from the newest state.
const MaxHistory = 50

// pushSnapshot records s into its own history: snapshots after the
// current index are discarded (an edit after undo overwrites that
// future), a deep copy of model plus selection is appended, and the
// index moves to the new last entry. The history slice is rebuilt
// rather than resliced so states retained by callers keep their own
// view of the past.
func pushSnapshot(s State) State {
	kept := s.History[:s.HistoryIndex+1]
	hist := make([]Snapshot, len(kept), len(kept)+1)
	copy(hist, kept)
	hist = append(hist, Snapshot{Model: s.Model.Clone(), Selection: s.Selection})
	if len(hist) > MaxHistory {
		hist = hist[len(hist)-MaxHistory:]
	}
	s.History = hist
	s.HistoryIndex = len(hist) - 1
	return s
}

// applyUndo steps back one snapshot. At the earliest snapshot it is a
// no-op. The restored model is a fresh clone, so later edits can never
// corrupt the stored snapshot.
func applyUndo(prev State) State {
	if !prev.CanUndo() {
		return prev
	}
	next := prev
	next.HistoryIndex--
	snap := next.History[next.HistoryIndex]
	next.Model = snap.Model.Clone()
	next.Selection = snap.Selection
	return next
}

// applyRedo steps forward one snapshot. At the latest snapshot it is a
// no-op.
func applyRedo(prev State) State {
	if !prev.CanRedo() {
		return prev
	}
	next := prev
	next.HistoryIndex++
	snap := next.History[next.HistoryIndex]
	next.Model = snap.Model.Clone()
	next.Selection = snap.Selection
	return next
}
