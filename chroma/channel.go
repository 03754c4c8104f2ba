package chroma

// Channel bounds
const (
	ChannelMin = 0
	ChannelMax = 255
)

// ChannelID identifies one color component
type ChannelID uint8

const (
	Red ChannelID = iota
	Green
	Blue
)

// String returns the single-letter component name
func (id ChannelID) String() string {
	switch id {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	default:
		return "?"
	}
}

// Channel is one color component's intensity and ramp direction
type Channel struct {
	ID         ChannelID
	Value      uint8
	Increasing bool
}

// newChannel creates a channel at value with the direction implied by it
func newChannel(id ChannelID, value uint8) *Channel {
	return &Channel{
		ID:         id,
		Value:      value,
		Increasing: value == ChannelMin,
	}
}

// reset returns the channel to zero, rising
func (c *Channel) reset() {
	c.Value = ChannelMin
	c.Increasing = true
}

// beginRamp picks the direction for a new ramp from the current value alone.
// A channel left mid-value by an earlier interrupted ramp therefore descends.
func (c *Channel) beginRamp() {
	c.Increasing = c.Value == ChannelMin
}

// Ramping reports whether the channel has room to move in its direction
func (c *Channel) Ramping() bool {
	return (c.Increasing && c.Value < ChannelMax) || (!c.Increasing && c.Value > ChannelMin)
}

// step moves the value one unit toward the boundary of the current direction
func (c *Channel) step() {
	if c.Increasing && c.Value < ChannelMax {
		c.Value++
	}
	if !c.Increasing && c.Value > ChannelMin {
		c.Value--
	}
}
