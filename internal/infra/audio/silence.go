package audio

// silence is a seekable stream of zero samples with a fixed length.
// It stands in for decoded media: the player keeps time without producing sound.
type silence struct {
	length   int
	position int
}

func newSilence(length int) *silence {
	if length < 0 {
		length = 0
	}
	return &silence{length: length}
}

func (s *silence) Stream(samples [][2]float64) (n int, ok bool) {
	if s.position >= s.length {
		return 0, false
	}
	n = len(samples)
	if remaining := s.length - s.position; n > remaining {
		n = remaining
	}
	for i := range samples[:n] {
		samples[i] = [2]float64{}
	}
	s.position += n
	return n, true
}

func (s *silence) Err() error    { return nil }
func (s *silence) Len() int      { return s.length }
func (s *silence) Position() int { return s.position }

// Seek clamps p into [0, Len].
func (s *silence) Seek(p int) error {
	switch {
	case p < 0:
		p = 0
	case p > s.length:
		p = s.length
	}
	s.position = p
	return nil
}
