package procfs

// Platform exposes the system constants the reader and estimator depend on,
// so they can be unit-tested with fixed values instead of real OS queries.
type Platform interface {
	// TickHz is the scheduler's ticks-per-second (CLK_TCK).
	TickHz() int64
	// NumCPU is the count of logical processors.
	NumCPU() int
	// PageSize is the memory page size in bytes.
	PageSize() int64
}

// FixedPlatform is a Platform with preset values, for tests.
type FixedPlatform struct {
	Hz    int64
	CPUs  int
	Bytes int64
}

func (p FixedPlatform) TickHz() int64   { return p.Hz }
func (p FixedPlatform) NumCPU() int     { return p.CPUs }
func (p FixedPlatform) PageSize() int64 { return p.Bytes }
