package frame

// ChannelToAxisMap names, for each output axis (x, y, z), the image channel
// that feeds it.
type ChannelToAxisMap [3]int

var (
	// RGBAxes maps channel 0→x, 1→y, 2→z.
	RGBAxes = ChannelToAxisMap{0, 1, 2}

	// BGRAxes maps channel 2→x, 1→y, 0→z. The albedo gradient vector of a
	// gradient pair is built with this ordering, inherited from raw BGR pixel
	// buffers.
	BGRAxes = ChannelToAxisMap{2, 1, 0}
)

// Valid reports whether m is a permutation of {0, 1, 2}.
func (m ChannelToAxisMap) Valid() bool {
	var seen [3]bool
	for _, c := range m {
		if c < 0 || c > 2 || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
