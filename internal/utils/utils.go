package utils

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DirExists reports whether the given path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path '%s' exists but is not a directory", path)
	}
	return true, nil
}

// DirIsEmpty reports whether the given directory has no entries.
func DirIsEmpty(path string) (bool, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(dirents) == 0, nil
}

// RunCommand runs given command with given arguments on given CWD.
// The working directory is passed down to the subprocess, the calling
// process's own working directory is never changed.
func RunCommand(ctx context.Context, log *slog.Logger, envs []string, cwd string, command string, args ...string) (string, error) {

	cmdStr := command + " " + strings.Join(args, " ")
	log.Log(ctx, -8, "running command", "cwd", cwd, "cmd", cmdStr)

	cmd := exec.CommandContext(ctx, command, args...)
	// force kill git & child process 5 seconds after sending it sigterm (when ctx is cancelled/timed out)
	cmd.WaitDelay = 5 * time.Second
	if cwd != "" {
		cmd.Dir = cwd
	}
	outbuf := bytes.NewBuffer(nil)
	errbuf := bytes.NewBuffer(nil)
	cmd.Stdout = outbuf
	cmd.Stderr = errbuf

	// If Env is nil, the new process uses the current process's environment.
	cmd.Env = []string{}

	if len(envs) > 0 {
		cmd.Env = append(cmd.Env, envs...)
	}

	start := time.Now()
	err := cmd.Run()
	runTime := time.Since(start)

	stdout := strings.TrimSpace(outbuf.String())
	stderr := strings.TrimSpace(errbuf.String())
	if ctx.Err() == context.DeadlineExceeded {
		err = ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("Run(%s): err:%w { stdout: %q, stderr: %q }", cmdStr, err, stdout, stderr)
	}
	log.Log(ctx, -8, "command result", "stdout", stdout, "stderr", stderr, "time", runTime)

	return stdout, nil
}
