package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/daemon"
	"github.com/theirongolddev/balancebuddy/internal/logger"
)

var (
	flagDaemonAddr         string
	flagDaemonSchedule     string
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background budget daemon with HTTP/SSE endpoints",
	Long: "Run a background budget daemon. It re-reads the budget on a cron schedule,\n" +
		"applies the monthly rollover and serves the figures on a local read-only API.",
	PersistentPreRunE: loadDaemonSettings,
	RunE:              runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonSchedule, "schedule", "", "Cron schedule for polls, e.g. \"@every 5m\" (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", "", "PID file path (default in the data directory)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", "", "Log file path for detached mode (default in the data directory)")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// loadDaemonSettings fills unset daemon flags from the config file.
func loadDaemonSettings(cmd *cobra.Command, args []string) error {
	if err := loadSettings(cmd, args); err != nil {
		return err
	}
	if flagDaemonAddr == "" {
		flagDaemonAddr = cfg.Daemon.Addr
	}
	if flagDaemonSchedule == "" {
		flagDaemonSchedule = cfg.Daemon.Schedule
	}
	if flagDaemonEventsBuffer == 0 {
		flagDaemonEventsBuffer = cfg.Daemon.EventsBuffer
	}
	if flagDaemonPIDFile == "" {
		flagDaemonPIDFile = filepath.Join(cfg.DataDir(), "balancebuddyd.pid")
	}
	if flagDaemonLogFile == "" {
		flagDaemonLogFile = filepath.Join(cfg.DataDir(), "balancebuddyd.log")
	}
	return nil
}

func runDaemon(_ *cobra.Command, _ []string) error {
	rt := newDaemonRuntime(flagDaemonPIDFile)
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached(rt)
	default:
		return runDaemonForeground(rt)
	}
}

// startDaemonDetached re-executes the binary as a --child writing to the
// daemon log file. The child claims the pid file itself.
func startDaemonDetached(rt daemonRuntime) error {
	if info, err := rt.running(); err == nil {
		return fmt.Errorf("daemon already running (pid %d)", info.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, childArgs(os.Args[1:])...) //nolint:gosec // re-runs this binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground(rt daemonRuntime) error {
	dataDir := cfg.DataDir()
	release, err := rt.claim(daemonInfo{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		Storage:   cfg.General.Storage,
		DataDir:   dataDir,
		StartedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	defer release()

	// The detached child's stdout is the log file: log JSON there.
	dlog := log
	if flagDaemonChild {
		dlog = logger.NewWithWriter(os.Stdout, min(log.GetLevel(), zerolog.InfoLevel))
	}

	svc := daemon.New(daemon.Config{
		DataDir:      dataDir,
		Storage:      cfg.General.Storage,
		Options:      cfg.PipelineOptions(),
		Schedule:     flagDaemonSchedule,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		Logger:       dlog,
	})

	fmt.Printf("  balancebuddy daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling %s (%s) from %s\n", flagDaemonSchedule, cfg.General.Storage, dataDir)
	fmt.Printf("  Stop with: balancebuddy daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	info, err := newDaemonRuntime(flagDaemonPIDFile).running()
	switch {
	case errors.Is(err, errDaemonNotRunning):
		fmt.Println("  Daemon: not running")
		return nil
	case errors.Is(err, errDaemonStale):
		fmt.Printf("  Daemon: %v\n", err)
		return nil
	case err != nil:
		return err
	}

	addr := flagDaemonAddr
	if info.Addr != "" {
		addr = info.Addr
	}
	fmt.Printf("  Daemon PID: %d\n", info.PID)
	fmt.Printf("  Address: http://%s\n", addr)
	if !info.StartedAt.IsZero() {
		fmt.Printf("  Up since: %s\n", info.StartedAt.Local().Format(time.RFC3339))
	}

	st, err := fetchDaemonStatus(addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d so far, %s)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount, st.Schedule)
	}
	fmt.Printf("  Storage: %s in %s\n", st.Storage, st.DataDir)
	if !st.Summary.At.IsZero() {
		fmt.Printf("  Balance: %s (%s)\n", cur(st.Summary.Balance), st.Summary.Health)
		fmt.Printf("  Flexible: %s, %s per day\n", cur(st.Summary.FlexibleSpending), cur(st.Summary.PerDay))
		fmt.Printf("  Bills pending: %d (%d due soon), %d transactions\n",
			st.Summary.PendingBills, st.Summary.DueSoon, st.Summary.Transactions)
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchDaemonStatus(addr string) (daemon.Status, error) {
	var st daemon.Status
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // bounded by the client timeout
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := newDaemonRuntime(flagDaemonPIDFile).stop(8 * time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
}
