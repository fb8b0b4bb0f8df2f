package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

var (
	errDaemonNotRunning = errors.New("daemon is not running")
	errDaemonStale      = errors.New("stale pid file")
)

// daemonInfo is written next to the pid file while a daemon runs.
type daemonInfo struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	Storage   string    `json:"storage"`
	DataDir   string    `json:"data_dir"`
	StartedAt time.Time `json:"started_at"`
}

// daemonRuntime tracks one daemon through its pid file and info sidecar.
type daemonRuntime struct {
	pidFile string
	alive   func(pid int) bool
}

func newDaemonRuntime(pidFile string) daemonRuntime {
	return daemonRuntime{pidFile: pidFile, alive: processAlive}
}

func (r daemonRuntime) infoPath() string {
	return strings.TrimSuffix(r.pidFile, filepath.Ext(r.pidFile)) + ".json"
}

// claim records info as the running daemon. It fails while another live
// daemon holds the pid file; a stale one is replaced. release removes both
// files again.
func (r daemonRuntime) claim(info daemonInfo) (release func(), err error) {
	current, err := r.running()
	switch {
	case err == nil:
		return nil, fmt.Errorf("daemon already running (pid %d)", current.PID)
	case !errors.Is(err, errDaemonNotRunning) && !errors.Is(err, errDaemonStale):
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(r.pidFile), 0o750); err != nil {
		return nil, fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(r.pidFile, []byte(strconv.Itoa(info.PID)+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		r.clear()
		return nil, err
	}
	if err := os.WriteFile(r.infoPath(), append(data, '\n'), 0o600); err != nil {
		r.clear()
		return nil, fmt.Errorf("write daemon info: %w", err)
	}
	return r.clear, nil
}

// running returns the live daemon's info. Only the PID is guaranteed when
// the sidecar is missing or unreadable.
func (r daemonRuntime) running() (daemonInfo, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(r.pidFile)
	if errors.Is(err, os.ErrNotExist) {
		return daemonInfo{}, errDaemonNotRunning
	}
	if err != nil {
		return daemonInfo{}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return daemonInfo{}, fmt.Errorf("%w: %s holds no pid", errDaemonStale, r.pidFile)
	}
	if !r.alive(pid) {
		return daemonInfo{PID: pid}, fmt.Errorf("%w: pid %d is not alive", errDaemonStale, pid)
	}

	info := daemonInfo{}
	//nolint:gosec // sits next to the pid file
	if raw, err := os.ReadFile(r.infoPath()); err == nil {
		_ = json.Unmarshal(raw, &info)
	}
	info.PID = pid
	return info, nil
}

func (r daemonRuntime) clear() {
	_ = os.Remove(r.pidFile)
	_ = os.Remove(r.infoPath())
}

// stop sends SIGTERM and waits up to timeout for the process to exit.
func (r daemonRuntime) stop(timeout time.Duration) (int, error) {
	info, err := r.running()
	if err != nil {
		if errors.Is(err, errDaemonStale) {
			r.clear()
			return 0, errDaemonNotRunning
		}
		return 0, err
	}

	proc, err := os.FindProcess(info.PID)
	if err != nil {
		return 0, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("signal daemon process: %w", err)
	}

	for deadline := time.Now().Add(timeout); time.Now().Before(deadline); time.Sleep(150 * time.Millisecond) {
		if !r.alive(info.PID) {
			r.clear()
			return info.PID, nil
		}
	}
	return 0, fmt.Errorf("daemon (pid %d) did not exit in time", info.PID)
}

// childArgs turns the detaching invocation into the child's argument list.
func childArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return append(out, "--child")
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
