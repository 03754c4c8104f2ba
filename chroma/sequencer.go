package chroma

// Schedule is the fixed per-cycle ramp order.
// Red takes four turns, green and blue two each.
var Schedule = [...]ChannelID{Red, Green, Red, Blue, Green, Red, Blue, Red}

// Sequencer owns the three channels and the queue of upcoming ramps.
// Not safe for concurrent use; the loop worker is its only writer.
type Sequencer struct {
	channels [3]*Channel
	queue    [len(Schedule)]*Channel
	head     int
	cycle    uint64
}

// NewSequencer creates a sequencer with all channels at zero and an empty queue
func NewSequencer() *Sequencer {
	s := &Sequencer{head: len(Schedule)}
	for id := Red; id <= Blue; id++ {
		s.channels[id] = newChannel(id, ChannelMin)
	}
	return s
}

// StartCycle resets every channel, refills the queue in schedule order and
// dequeues the first entry
func (s *Sequencer) StartCycle() *Channel {
	for _, ch := range s.channels {
		ch.reset()
	}

	for i, id := range Schedule {
		s.queue[i] = s.channels[id]
	}
	s.head = 0
	s.cycle++

	ch, _ := s.Next()
	return ch
}

// Next dequeues the next channel; false when the cycle is exhausted
func (s *Sequencer) Next() (*Channel, bool) {
	if s.head >= len(s.queue) {
		return nil, false
	}
	ch := s.queue[s.head]
	s.head++
	return ch, true
}

// Remaining returns the number of ramps left in the current cycle
func (s *Sequencer) Remaining() int {
	return len(s.queue) - s.head
}

// Cycle returns how many cycles have been started
func (s *Sequencer) Cycle() uint64 {
	return s.cycle
}

// Channel returns the live channel for id
func (s *Sequencer) Channel(id ChannelID) *Channel {
	return s.channels[id]
}

// Composite snapshots the current channel values
func (s *Sequencer) Composite() RGB {
	return RGB{
		R: s.channels[Red].Value,
		G: s.channels[Green].Value,
		B: s.channels[Blue].Value,
	}
}
