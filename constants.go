package oversampler

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Factor and block limits
const (
	minFactor    = 1
	maxFactor    = 64 // Beyond this the fixed 65-tap kernel can no longer band-limit usefully
	minBlockSize = 1

	// DefaultMaxBlockSize is used by the convenience constructors.
	DefaultMaxBlockSize = 512
)

const bytesPerFloat64 = 8 // Size of float64 in bytes
