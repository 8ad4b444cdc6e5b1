// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package runner executes the command lines composed by building blocks,
// either on the local machine or on a configured SSH host, streaming the
// wrapped tool's output as it runs.
package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"bioblocks/internal/config"
	"bioblocks/internal/ssh"
	"bioblocks/internal/util"

	gossh "golang.org/x/crypto/ssh"
)

var sshManager *ssh.Manager

// InitSSHManager sets the package-level SSH manager instance.
func InitSSHManager(manager *ssh.Manager) {
	if sshManager != nil {
		return
	}
	sshManager = manager
}

// Target identifies where a command runs: the local machine or a configured
// remote host.
type Target struct {
	IsRemote   bool
	HostConfig *config.SSHHost // Only set if IsRemote is true
	ServerName string          // "local" or the remote host name
}

// LocalTarget is the default execution target.
func LocalTarget() Target {
	return Target{ServerName: "local"}
}

// RemoteTarget builds a target for a configured host.
func RemoteTarget(host *config.SSHHost) Target {
	return Target{IsRemote: true, HostConfig: host, ServerName: host.Name}
}

// Step is a single command to execute for a building block or workflow step.
type Step struct {
	Name    string
	Command string
	Args    []string
	Dir     string // Working directory; empty means the process default
	Target  Target
}

// OutputLine is one chunk of process output.
type OutputLine struct {
	Line    string
	IsError bool // True if the chunk came from stderr
}

// Run executes a step synchronously, streaming stdout and stderr to the
// given writers, and returns the command's exit code. A non-zero exit code
// is returned together with an error describing the failure.
func Run(step Step, stdout, stderr io.Writer) (int, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if step.Target.IsRemote {
		return runRemote(step, stdout, stderr)
	}

	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = step.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		code := exitCode(err)
		if code != -1 {
			return code, fmt.Errorf("step '%s' exited with status %d: %w", step.Name, code, err)
		}
		return -1, fmt.Errorf("step '%s' failed: %w", step.Name, err)
	}
	return 0, nil
}

// runRemote executes the step on its remote target over SSH. Paths in the
// command must be valid on the remote host; no file transfer is performed.
func runRemote(step Step, stdout, stderr io.Writer) (int, error) {
	if sshManager == nil {
		return -1, fmt.Errorf("ssh manager not initialized for step '%s'", step.Name)
	}
	if step.Target.HostConfig == nil {
		return -1, fmt.Errorf("internal error: HostConfig is nil for remote step '%s'", step.Name)
	}

	client, err := sshManager.GetClient(*step.Target.HostConfig)
	if err != nil {
		return -1, fmt.Errorf("failed to get ssh client for step '%s': %w", step.Name, err)
	}

	session, err := client.NewSession()
	if err != nil {
		return -1, fmt.Errorf("failed to create ssh session for step '%s': %w", step.Name, err)
	}
	defer session.Close()

	session.Stdout = stdout
	session.Stderr = stderr

	remoteCmd := util.JoinForShell(append([]string{step.Command}, step.Args...))
	if step.Dir != "" {
		remoteCmd = "cd " + util.QuoteArgForShell(step.Dir) + " && " + remoteCmd
	}

	if err := session.Run(remoteCmd); err != nil {
		if exitErr, ok := err.(*gossh.ExitError); ok {
			code := exitErr.ExitStatus()
			return code, fmt.Errorf("step '%s' exited with status %d on %s: %w",
				step.Name, code, step.Target.ServerName, err)
		}
		return -1, fmt.Errorf("step '%s' failed on %s: %w", step.Name, step.Target.ServerName, err)
	}
	return 0, nil
}

// Stream executes a step asynchronously. If cliMode is true, output goes
// directly to os.Stdout/Stderr; otherwise raw chunks are sent over the
// returned output channel for TUI or API consumers.
func Stream(step Step, cliMode bool) (<-chan OutputLine, <-chan error) {
	// Buffer slightly for TUI mode to prevent blocking on rapid output
	outChan := make(chan OutputLine, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		if step.Target.IsRemote {
			streamRemote(step, cliMode, outChan, errChan)
			return
		}
		streamLocal(step, cliMode, outChan, errChan)
	}()

	return outChan, errChan
}

func streamLocal(step Step, cliMode bool, outChan chan<- OutputLine, errChan chan<- error) {
	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = step.Dir
	cmdDesc := fmt.Sprintf("local step '%s'", step.Name)

	var cmdErr error
	if cliMode {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("failed to start %s: %w", cmdDesc, err)
			return
		}
		cmdErr = cmd.Wait()
	} else {
		stdoutPipe, err := cmd.StdoutPipe()
		if err != nil {
			errChan <- fmt.Errorf("failed to get stdout pipe for %s: %w", cmdDesc, err)
			return
		}
		stderrPipe, err := cmd.StderrPipe()
		if err != nil {
			errChan <- fmt.Errorf("failed to get stderr pipe for %s: %w", cmdDesc, err)
			return
		}

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("failed to start %s: %w", cmdDesc, err)
			return
		}

		outputDone := make(chan struct{}, 2) // Wait for both streamPipe goroutines
		go streamPipe(stdoutPipe, outChan, outputDone, false)
		go streamPipe(stderrPipe, outChan, outputDone, true)

		cmdErr = cmd.Wait()

		// Wait for pipe readers to finish *after* command Wait returns
		<-outputDone
		<-outputDone
	}

	if cmdErr != nil {
		code := exitCode(cmdErr)
		if code != -1 {
			errChan <- fmt.Errorf("%s exited with status %d: %w", cmdDesc, code, cmdErr)
		} else {
			errChan <- fmt.Errorf("%s failed: %w", cmdDesc, cmdErr)
		}
	}
}

func streamRemote(step Step, cliMode bool, outChan chan<- OutputLine, errChan chan<- error) {
	cmdDesc := fmt.Sprintf("step '%s' on host %s", step.Name, step.Target.ServerName)

	if sshManager == nil {
		errChan <- fmt.Errorf("ssh manager not initialized for %s", cmdDesc)
		return
	}
	if step.Target.HostConfig == nil {
		errChan <- fmt.Errorf("internal error: HostConfig is nil for %s", cmdDesc)
		return
	}

	client, err := sshManager.GetClient(*step.Target.HostConfig)
	if err != nil {
		errChan <- fmt.Errorf("failed to get ssh client for %s: %w", cmdDesc, err)
		return
	}

	session, err := client.NewSession()
	if err != nil {
		errChan <- fmt.Errorf("failed to create ssh session for %s: %w", cmdDesc, err)
		return
	}
	defer session.Close()

	stdoutPipe, err := session.StdoutPipe()
	if err != nil {
		errChan <- fmt.Errorf("failed to get ssh stdout pipe for %s: %w", cmdDesc, err)
		return
	}
	stderrPipe, err := session.StderrPipe()
	if err != nil {
		errChan <- fmt.Errorf("failed to get ssh stderr pipe for %s: %w", cmdDesc, err)
		return
	}

	// Request a PTY so interactive tools keep their progress output (and color)
	modes := gossh.TerminalModes{
		gossh.ECHO:          0,     // disable echoing input
		gossh.TTY_OP_ISPEED: 14400, // input speed = 14.4kbaud
		gossh.TTY_OP_OSPEED: 14400, // output speed = 14.4kbaud
	}
	if err := session.RequestPty("xterm-256color", 80, 40, modes); err != nil {
		// Not fatal: some servers refuse PTY allocation but still run commands.
		fmt.Fprintf(os.Stderr, "Warning: Failed to request pty for %s (continuing): %v\n", cmdDesc, err)
	}

	remoteCmd := util.JoinForShell(append([]string{step.Command}, step.Args...))
	if step.Dir != "" {
		remoteCmd = "cd " + util.QuoteArgForShell(step.Dir) + " && " + remoteCmd
	}

	if err := session.Start(remoteCmd); err != nil {
		errChan <- fmt.Errorf("failed to start remote command for %s: %w", cmdDesc, err)
		return
	}

	var cmdErr error
	if cliMode {
		var wg sync.WaitGroup
		wg.Add(2) // Wait for both stdout and stderr copying

		go func() {
			defer wg.Done()
			_, _ = io.Copy(os.Stdout, stdoutPipe)
		}()
		go func() {
			defer wg.Done()
			_, _ = io.Copy(os.Stderr, stderrPipe)
		}()

		cmdErr = session.Wait()
		wg.Wait()
	} else {
		outputDone := make(chan struct{}, 2)

		go streamPipe(stdoutPipe, outChan, outputDone, false)
		go streamPipe(stderrPipe, outChan, outputDone, true)

		cmdErr = session.Wait()

		<-outputDone
		<-outputDone
	}

	if cmdErr != nil {
		if exitErr, ok := cmdErr.(*gossh.ExitError); ok {
			errChan <- fmt.Errorf("%s exited with status %d: %w", cmdDesc, exitErr.ExitStatus(), cmdErr)
		} else {
			errChan <- fmt.Errorf("%s failed: %w", cmdDesc, cmdErr)
		}
	}
}

// streamPipe reads raw chunks from the pipe and sends them over the outChan.
// Raw chunks (including control characters) are preserved for TUI consumers.
func streamPipe(pipe io.Reader, outChan chan<- OutputLine, doneChan chan<- struct{}, isError bool) {
	defer func() { doneChan <- struct{}{} }()
	buf := make([]byte, 1024)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			outChan <- OutputLine{Line: string(buf[:n]), IsError: isError}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "Pipe read error (%v): %v\n", isError, err)
			}
			break
		}
	}
}

// exitCode extracts an exit status from a local exec error, or -1.
func exitCode(err error) int {
	if exitError, ok := err.(*exec.ExitError); ok {
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			return status.ExitStatus()
		}
	}
	return -1
}

// LookBinary resolves a binary name against PATH, falling back to the given
// name when it is already a path.
func LookBinary(name string) string {
	if strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}
