package session

// Progress is the position within the current attempt.
type Progress struct {
	Index    int // zero-based cursor
	Total    int
	Answered int
	Correct  int
}

// Fraction is how far through the attempt the cursor is, in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Index) / float64(p.Total)
}

// Progress returns the current attempt's position. The zero value means
// no attempt.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	if s == nil {
		return Progress{}
	}
	idx := s.Index
	if s.Phase == PhaseComplete {
		idx = len(s.Problems)
	}
	return Progress{
		Index:    idx,
		Total:    len(s.Problems),
		Answered: s.Answered,
		Correct:  s.Correct,
	}
}
