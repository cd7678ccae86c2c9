package deeplink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Launcher hands a URI to whatever handles its scheme.
type Launcher interface {
	Open(ctx context.Context, uri string) error
}

// LaunchError reports a URI that could not be opened. It is not retried.
type LaunchError struct {
	URI string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.URI, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ErrUnsupportedScheme is wrapped by LaunchError for schemes other than
// https and tel.
var ErrUnsupportedScheme = errors.New("unsupported scheme")

// CheckScheme returns a *LaunchError unless uri is an https or tel URI.
func CheckScheme(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return &LaunchError{URI: uri, Err: err}
	}
	switch u.Scheme {
	case "https", "tel":
		return nil
	default:
		return &LaunchError{URI: uri, Err: fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)}
	}
}

// CommandLauncher opens URIs with the platform opener.
type CommandLauncher struct {
	logger *zap.Logger
	// command builds the opener invocation; swapped in tests.
	command func(ctx context.Context, uri string) *exec.Cmd
}

// NewCommandLauncher returns a launcher using xdg-open, open or rundll32
// depending on the OS.
func NewCommandLauncher(logger *zap.Logger) *CommandLauncher {
	return &CommandLauncher{logger: logger, command: platformCommand}
}

func platformCommand(ctx context.Context, uri string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", uri)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		return exec.CommandContext(ctx, "xdg-open", uri)
	}
}

// Open implements Launcher. Failures are logged and returned as *LaunchError.
func (l *CommandLauncher) Open(ctx context.Context, uri string) error {
	if err := CheckScheme(uri); err != nil {
		l.logger.Warn("deeplink: refusing uri", zap.String("uri", uri), zap.Error(err))
		return err
	}
	if err := l.command(ctx, uri).Run(); err != nil {
		l.logger.Warn("deeplink: opener failed", zap.String("uri", uri), zap.Error(err))
		return &LaunchError{URI: uri, Err: err}
	}
	return nil
}
