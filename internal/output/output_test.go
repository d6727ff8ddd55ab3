package output

import (
	"strings"
	"testing"

	"github.com/procman-io/procman/internal/proctree"
	"github.com/procman-io/procman/pkg/model"
)

func sampleProcs() []model.Process {
	return []model.Process{
		{PID: 1, User: "root", Name: "init", State: model.StateSleeping, CPUPercent: 0.5, ResidentBytes: 10 << 20, UptimeSeconds: 90000},
		{PID: 42, User: "alice", Name: "worker", State: model.StateRunning, CPUPercent: 75.2, ResidentBytes: 200 << 20, UptimeSeconds: 125},
	}
}

func TestSortProcesses(t *testing.T) {
	procs := sampleProcs()

	SortProcesses(procs, "cpu", true)
	if procs[0].PID != 42 {
		t.Fatalf("cpu desc should put the busy worker first, got %v", procs[0])
	}

	SortProcesses(procs, "pid", false)
	if procs[0].PID != 1 {
		t.Fatalf("pid asc should put init first, got %v", procs[0])
	}

	SortProcesses(procs, "bogus-column", true)
	if procs[0].PID != 42 {
		t.Fatalf("unknown column should fall back to cpu, got %v", procs[0])
	}
}

func TestPrintTable(t *testing.T) {
	var sb strings.Builder
	PrintTable(&sb, sampleProcs())

	out := sb.String()
	for _, want := range []string{"PID", "worker", "alice", "75.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	cases := map[int64]string{
		90:     "1m30s",
		3660:   "1h01m",
		100000: "1d03h",
	}
	for in, want := range cases {
		if got := FormatUptime(in); got != want {
			t.Errorf("FormatUptime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestPrintTreeRendersHierarchyAndOrphans(t *testing.T) {
	table := map[int]model.Process{
		1: {PID: 1, PPID: 0, Name: "init", State: model.StateSleeping},
		2: {PID: 2, PPID: 1, Name: "child", State: model.StateRunning},
		5: {PID: 5, PPID: 999, Name: "stray", State: model.StateSleeping},
	}
	tree := proctree.Build(table, 1)

	var sb strings.Builder
	PrintTree(&sb, tree)
	out := sb.String()

	if !strings.Contains(out, "init (pid 1") {
		t.Errorf("root missing:\n%s", out)
	}
	if !strings.Contains(out, "└─ child (pid 2") {
		t.Errorf("child connector missing:\n%s", out)
	}
	if !strings.Contains(out, "stray (pid 5") || !strings.Contains(out, "[orphan]") {
		t.Errorf("orphan must be rendered and annotated:\n%s", out)
	}
}

func TestPrintTreeNil(t *testing.T) {
	var sb strings.Builder
	PrintTree(&sb, nil)
	if !strings.Contains(sb.String(), "no process tree") {
		t.Fatalf("nil tree message missing: %q", sb.String())
	}
}

func TestEncodersRoundTripKeys(t *testing.T) {
	js, err := ToJSON(sampleProcs())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js, `"pid": 42`) {
		t.Errorf("json missing pid key:\n%s", js)
	}

	ym, err := ToYAML(sampleProcs())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ym, "pid: 42") {
		t.Errorf("yaml missing pid key:\n%s", ym)
	}
}
