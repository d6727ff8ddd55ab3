package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/procman-io/procman/internal/config"
	"github.com/procman-io/procman/internal/launch"
	"github.com/procman-io/procman/internal/logging"
	"github.com/procman-io/procman/internal/monitor"
	"github.com/procman-io/procman/internal/output"
	"github.com/procman-io/procman/internal/session"
	"github.com/procman-io/procman/internal/tui"
	"github.com/procman-io/procman/pkg/model"
)

var (
	version = "0.1.0"
	cfgFile string

	listFormat string
	listSort   string
	listDesc   bool

	killTreeSelf bool
	spawnDetach  bool
)

var rootCmd = &cobra.Command{
	Use:   "procman",
	Short: "Process monitor and manager",
	Long:  `procman - live process table, process tree, and privileged process control for Linux`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive process view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one snapshot of the process table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listProcesses()
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [pid]",
	Short: "Print the process hierarchy rooted at pid (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTree(args)
	},
}

var killCmd = &cobra.Command{
	Use:   "kill <pid>...",
	Short: "Force-kill processes (SIGKILL)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalPIDs(args, "kill")
	},
}

var terminateCmd = &cobra.Command{
	Use:   "terminate <pid>...",
	Short: "Request graceful termination (SIGTERM)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalPIDs(args, "terminate")
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause <pid>...",
	Short: "Suspend processes (SIGSTOP)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalPIDs(args, "pause")
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <pid>...",
	Short: "Resume suspended processes (SIGCONT)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalPIDs(args, "resume")
	},
}

var reniceCmd = &cobra.Command{
	Use:   "renice <pid> <nice>",
	Short: "Set a process's nice value (-20..19)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renice(args[0], args[1])
	},
}

var killTreeCmd = &cobra.Command{
	Use:   "killtree <pid>",
	Short: "Kill all descendants of a process, deepest first",
	Long: `Kill every descendant of the given process, deepest first, so no child
is reparented before it is signalled. With --self the process itself is
killed last.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return killTree(args[0])
	},
}

var spawnCmd = &cobra.Command{
	Use:   "spawn <command> [args...]",
	Short: "Launch a command, attached or detached",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return spawn(args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("procman v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is procman.yaml in the user config dir)")

	listCmd.Flags().StringVarP(&listFormat, "output", "o", "table", "output format: table, json, or yaml")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort column: pid, name, user, cpu, memory, uptime")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "sort descending")

	killTreeCmd.Flags().BoolVar(&killTreeSelf, "self", false, "also kill the target process, after its descendants")
	spawnCmd.Flags().BoolVarP(&spawnDetach, "detach", "d", false, "detach into its own session and return the pid")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(terminateCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(reniceCmd)
	rootCmd.AddCommand(killTreeCmd)
	rootCmd.AddCommand(spawnCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config, wires logging, and builds the manager for the invoking
// user's session.
func setup() (*config.Config, *monitor.Manager, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logging.Init(cfg.LogFormat, cfg.LogLevel, rw)
	} else {
		logging.Init(cfg.LogFormat, cfg.LogLevel, nil)
	}
	cfg.LogValidation(logging.L("config"))

	sess := session.Current()
	mgr := monitor.NewSystem(sess, cfg.RootPID)
	return cfg, mgr, nil
}

func runTUI() error {
	cfg, mgr, err := setup()
	if err != nil {
		return err
	}
	return tui.Run(mgr, tui.Options{
		RefreshInterval: time.Duration(cfg.RefreshIntervalSeconds) * time.Second,
		SortColumn:      cfg.SortColumn,
		SortDescending:  cfg.SortDescending,
	})
}

func listProcesses() error {
	cfg, mgr, err := setup()
	if err != nil {
		return err
	}
	if err := mgr.Refresh(); err != nil {
		return err
	}

	procs := mgr.Processes()

	sortCol, sortDesc := cfg.SortColumn, cfg.SortDescending
	if listSort != "" {
		sortCol, sortDesc = listSort, listDesc
	}
	output.SortProcesses(procs, sortCol, sortDesc)

	switch listFormat {
	case "json":
		s, err := output.ToJSON(procs)
		if err != nil {
			return err
		}
		fmt.Println(s)
	case "yaml":
		s, err := output.ToYAML(procs)
		if err != nil {
			return err
		}
		fmt.Print(s)
	case "table":
		output.PrintTable(os.Stdout, procs)
	default:
		return fmt.Errorf("unknown output format %q", listFormat)
	}
	return nil
}

func printTree(args []string) error {
	cfg, mgr, err := setup()
	if err != nil {
		return err
	}
	if err := mgr.Refresh(); err != nil {
		return err
	}

	rootPID := cfg.RootPID
	if len(args) == 1 {
		rootPID, err = strconv.Atoi(args[0])
		if err != nil || rootPID < 1 {
			return fmt.Errorf("invalid pid %q", args[0])
		}
	}

	output.PrintTree(os.Stdout, mgr.BuildTree(rootPID))
	return nil
}

func signalPIDs(args []string, action string) error {
	_, mgr, err := setup()
	if err != nil {
		return err
	}

	pids, err := parsePIDs(args)
	if err != nil {
		return err
	}

	if len(pids) == 1 {
		pid := pids[0]
		switch action {
		case "kill":
			err = mgr.Kill(pid)
		case "terminate":
			err = mgr.Terminate(pid)
		case "pause":
			err = mgr.Pause(pid)
		case "resume":
			err = mgr.Resume(pid)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s: pid %d\n", action, pid)
		return nil
	}

	var res model.BatchResult
	switch action {
	case "kill":
		res, err = mgr.BatchKill(pids, true)
	case "terminate":
		res, err = mgr.BatchKill(pids, false)
	case "pause":
		res, err = mgr.BatchPause(pids)
	case "resume":
		res, err = mgr.BatchResume(pids)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", action, res)
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  pid %d: %s\n", f.PID, f.Err)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%s: %d of %d pids failed", action, res.Failed, len(pids))
	}
	return nil
}

func renice(pidArg, niceArg string) error {
	_, mgr, err := setup()
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(pidArg)
	if err != nil || pid < 1 {
		return fmt.Errorf("invalid pid %q", pidArg)
	}
	nice, err := strconv.Atoi(niceArg)
	if err != nil || nice < -20 || nice > 19 {
		return fmt.Errorf("invalid nice value %q (want -20..19)", niceArg)
	}

	if err := mgr.SetPriority(pid, nice); err != nil {
		return err
	}
	fmt.Printf("renice: pid %d -> %d\n", pid, nice)
	return nil
}

func killTree(pidArg string) error {
	_, mgr, err := setup()
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(pidArg)
	if err != nil || pid < 1 {
		return fmt.Errorf("invalid pid %q", pidArg)
	}

	if err := mgr.Refresh(); err != nil {
		return err
	}

	res, err := mgr.KillDescendants(pid, killTreeSelf)
	if err != nil {
		return err
	}

	fmt.Printf("killtree: %d killed\n", len(res.Killed))
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  pid %d: %s\n", f.PID, f.Err)
	}
	if len(res.Failures) > 0 {
		return fmt.Errorf("killtree: %d of %d targets failed", len(res.Failures), len(res.Killed)+len(res.Failures))
	}
	return nil
}

func spawn(args []string) error {
	_, mgr, err := setup()
	if err != nil {
		return err
	}

	guard := session.NewGuard(mgr.Session())

	if spawnDetach {
		pid, err := launch.Background(guard, args[0], args[1:]...)
		if err != nil {
			return err
		}
		fmt.Printf("spawned pid %d\n", pid)
		return nil
	}

	code, err := launch.Foreground(guard, args[0], args[1:]...)
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

func parsePIDs(args []string) ([]int, error) {
	pids := make([]int, 0, len(args))
	for _, a := range args {
		pid, err := strconv.Atoi(a)
		if err != nil || pid < 1 {
			return nil, fmt.Errorf("invalid pid %q", a)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}
