package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
)

// Session is one authenticated connection to a remote host. Commands and
// transfers share the connection; the SFTP subsystem is opened on first use.
type Session struct {
	host   string
	client *ssh.Client

	mu   sync.Mutex
	sftp *sftp.Client
}

func (s *Session) sftpClient() (*sftp.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sftp != nil {
		return s.sftp, nil
	}
	sc, err := sftp.NewClient(s.client)
	if err != nil {
		return nil, fmt.Errorf("failed to open SFTP subsystem on %s: %w", s.host, err)
	}
	s.sftp = sc
	return sc, nil
}

// Close closes the SFTP subsystem, if open, and the connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.sftp != nil {
		errs = append(errs, s.sftp.Close())
		s.sftp = nil
	}
	errs = append(errs, s.client.Close())
	return errors.Join(errs...)
}

// ExitError reports a remote command that ran and exited non-zero.
type ExitError struct {
	Command string
	Status  int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("remote command exited with status %d: %s", e.Status, e.Command)
}

// Run executes command on the remote host. Stdout and stderr are copied to
// the given writers as the output arrives; Run returns once the command has
// exited and both streams are drained. A non-zero exit yields *ExitError.
// Cancelling ctx kills the remote command.
func (s *Session) Run(ctx context.Context, command string, stdout, stderr io.Writer) error {
	session, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session on %s: %w", s.host, err)
	}
	defer func() { _ = session.Close() }()

	outPipe, err := session.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach stdout: %w", err)
	}
	errPipe, err := session.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to attach stderr: %w", err)
	}

	if err := session.Start(command); err != nil {
		return fmt.Errorf("failed to start command on %s: %w", s.host, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Signal(ssh.SIGKILL)
			_ = session.Close()
		case <-done:
		}
	}()

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(stdout, outPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, errPipe)
		return err
	})
	copyErr := g.Wait()
	waitErr := session.Wait()

	if ctx.Err() != nil {
		return fmt.Errorf("command on %s interrupted: %w", s.host, ctx.Err())
	}
	if waitErr != nil {
		var exitErr *ssh.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Command: command, Status: exitErr.ExitStatus()}
		}
		return fmt.Errorf("command failed on %s: %w", s.host, waitErr)
	}
	if copyErr != nil {
		return fmt.Errorf("failed to stream output from %s: %w", s.host, copyErr)
	}

	return nil
}
