package domain

// Hasher is the port for any content-addressing strategy. The calibration
// pipeline uses it to derive stable cache file names from URLs.
type Hasher interface {
	Hash(data []byte) string
}
