// Package browser opens external links with the platform URL handler.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedScheme is returned for anything other than http and https
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// ErrNoOpener is returned when no URL handler is installed
var ErrNoOpener = errors.New("no url opener found")

// Opener launches URLs in the user's browser without waiting for it
type Opener struct {
	goos     string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

// New returns an opener for the running platform
func New() *Opener {
	return &Opener{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Open validates rawURL and hands it to the platform handler
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q: %w", u.Scheme, ErrUnsupportedScheme)
	}

	cmd, err := o.command(u.String())
	if err != nil {
		return err
	}
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return nil
}

// command builds the handler invocation
// Priority on unix: xdg-open > gio > wslview
func (o *Opener) command(target string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return o.lookup("open", target)
	case "windows":
		return o.lookup("rundll32", "url.dll,FileProtocolHandler", target)
	}

	for _, c := range [][]string{
		{"xdg-open", target},
		{"gio", "open", target},
		{"wslview", target},
	} {
		if cmd, err := o.lookup(c[0], c[1:]...); err == nil {
			return cmd, nil
		}
	}
	return nil, ErrNoOpener
}

func (o *Opener) lookup(name string, args ...string) (*exec.Cmd, error) {
	path, err := o.lookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoOpener)
	}
	cmd := exec.Command(path, args...)
	return cmd, nil
}

// startDetached starts cmd and reaps it in the background
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
