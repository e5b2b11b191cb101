package chain

// Retarget applies the §4.4 difficulty retarget policy. It is invoked by
// the miner after its own self-mined block is accepted — never from inside
// AcceptBlock — so two nodes mining at different rates can legitimately
// retarget on different schedules (§9 Q1, not a bug).
//
// Let W be AdjustEvery and T be TargetBlockSeconds. When len(chain) % W == 1
// and len(chain) > W, the average block interval over the trailing W blocks
// is compared against T: a slower-than-target average decrements difficulty
// (floor of 1), otherwise it increments.
func (s *State) Retarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retargetLocked()
}

func (s *State) retargetLocked() {
	w := int(s.opts.AdjustEvery)
	if w <= 1 {
		return
	}
	n := len(s.chain)
	if n <= w || n%w != 1 {
		return
	}

	window := s.chain[n-w:]
	elapsedMillis := window[len(window)-1].Timestamp - window[0].Timestamp
	elapsedSeconds := elapsedMillis / 1000
	avg := float64(elapsedSeconds) / float64(w-1)

	if avg > float64(s.opts.TargetBlockSeconds) {
		if s.difficulty > 1 {
			s.difficulty--
		}
	} else {
		s.difficulty++
	}
}
