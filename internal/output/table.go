// Package output renders process listings for the non-interactive commands.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/procman-io/procman/pkg/model"
)

// SortProcesses orders the slice by the given column; desc flips the order.
// Unknown columns fall back to cpu.
func SortProcesses(procs []model.Process, column string, desc bool) {
	sort.SliceStable(procs, func(i, j int) bool {
		var less bool
		switch column {
		case "pid":
			less = procs[i].PID < procs[j].PID
		case "name":
			less = strings.ToLower(procs[i].Name) < strings.ToLower(procs[j].Name)
		case "user":
			less = strings.ToLower(procs[i].User) < strings.ToLower(procs[j].User)
		case "memory":
			less = procs[i].ResidentBytes < procs[j].ResidentBytes
		case "uptime":
			less = procs[i].UptimeSeconds < procs[j].UptimeSeconds
		case "cpu":
			fallthrough
		default:
			less = procs[i].CPUPercent < procs[j].CPUPercent
		}
		if desc {
			return !less
		}
		return less
	})
}

// PrintTable writes a tab-aligned process listing.
func PrintTable(w io.Writer, procs []model.Process) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tUSER\tSTATE\tCPU%\tMEM(MB)\tNICE\tUPTIME\tNAME")
	for _, p := range procs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%.1f\t%d\t%s\t%s\n",
			p.PID, p.User, p.State, p.CPUPercent, p.ResidentMB(), p.Nice,
			FormatUptime(p.UptimeSeconds), p.Name)
	}
	tw.Flush()
}

// FormatUptime renders seconds as 3d04h, 2h05m, or 7m30s.
func FormatUptime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd%02dh", int(d.Hours())/24, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
