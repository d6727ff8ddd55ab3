package procfs

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// statFields holds the subset of /proc/[pid]/stat the monitor consumes.
type statFields struct {
	comm       string
	state      byte
	ppid       int
	nice       int
	cpuTicks   int64 // utime + stime
	startTicks int64
	rssPages   int64
}

// parseStat parses /proc/[pid]/stat content. The comm field can contain
// spaces and parentheses, so everything between the first '(' and the last
// ')' is the name and the whitespace-split fields start after that.
func parseStat(data string) (statFields, error) {
	firstParen := strings.Index(data, "(")
	lastParen := strings.LastIndex(data, ")")
	if firstParen == -1 || lastParen == -1 || lastParen < firstParen {
		return statFields{}, fmt.Errorf("malformed stat line")
	}

	var f statFields
	f.comm = data[firstParen+1 : lastParen]

	// Field numbers per proc(5), counting from 1 with pid=1 and comm=2.
	// remaining[0] is field 3 (state).
	remaining := strings.Fields(data[lastParen+1:])
	if len(remaining) < 22 {
		return statFields{}, fmt.Errorf("stat line has %d fields, need 22", len(remaining)+2)
	}

	if len(remaining[0]) != 1 {
		return statFields{}, fmt.Errorf("malformed state field %q", remaining[0])
	}
	f.state = remaining[0][0]

	ppid, err := strconv.Atoi(remaining[1])
	if err != nil {
		return statFields{}, fmt.Errorf("parse ppid: %w", err)
	}
	f.ppid = ppid

	utime, err := strconv.ParseInt(remaining[11], 10, 64)
	if err != nil {
		return statFields{}, fmt.Errorf("parse utime: %w", err)
	}
	stime, err := strconv.ParseInt(remaining[12], 10, 64)
	if err != nil {
		return statFields{}, fmt.Errorf("parse stime: %w", err)
	}
	f.cpuTicks = utime + stime

	nice, err := strconv.Atoi(remaining[16])
	if err != nil {
		return statFields{}, fmt.Errorf("parse nice: %w", err)
	}
	f.nice = nice

	start, err := strconv.ParseInt(remaining[19], 10, 64)
	if err != nil {
		return statFields{}, fmt.Errorf("parse starttime: %w", err)
	}
	f.startTicks = start

	rss, err := strconv.ParseInt(remaining[21], 10, 64)
	if err != nil {
		return statFields{}, fmt.Errorf("parse rss: %w", err)
	}
	f.rssPages = rss

	return f, nil
}

// parseStatusUID extracts the real uid from /proc/[pid]/status content.
func parseStatusUID(data string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed Uid line %q", line)
		}
		uid, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("parse uid: %w", err)
		}
		return uid, nil
	}
	return 0, fmt.Errorf("no Uid line in status")
}

// parseUptime extracts the machine uptime seconds from /proc/uptime content.
func parseUptime(data string) (float64, error) {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime")
	}
	return strconv.ParseFloat(fields[0], 64)
}
