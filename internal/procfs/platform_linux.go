//go:build linux

package procfs

import (
	"os"
	"sync"

	"github.com/tklauser/go-sysconf"
	"github.com/tklauser/numcpus"
)

// Fallbacks when the system queries fail. 100 Hz is the usual CLK_TCK but
// not guaranteed, so percentages computed on the fallback carry some skew;
// a core count of 1 inflates percentages on multi-core machines.
const (
	defaultTickHz = 100
	defaultCPUs   = 1
)

// SysPlatform queries the real system constants, each once, lazily.
type SysPlatform struct {
	hzOnce  sync.Once
	hz      int64
	cpuOnce sync.Once
	cpus    int
}

// NewPlatform returns the live-system Platform.
func NewPlatform() *SysPlatform {
	return &SysPlatform{}
}

func (p *SysPlatform) TickHz() int64 {
	p.hzOnce.Do(func() {
		hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
		if err != nil || hz <= 0 {
			log.Warn("CLK_TCK query failed, using fallback", "fallback", defaultTickHz, "error", err)
			p.hz = defaultTickHz
			return
		}
		p.hz = hz
	})
	return p.hz
}

func (p *SysPlatform) NumCPU() int {
	p.cpuOnce.Do(func() {
		n, err := numcpus.GetOnline()
		if err != nil || n <= 0 {
			log.Warn("online cpu count query failed, using fallback", "fallback", defaultCPUs, "error", err)
			p.cpus = defaultCPUs
			return
		}
		p.cpus = n
	})
	return p.cpus
}

func (p *SysPlatform) PageSize() int64 {
	return int64(os.Getpagesize())
}
