// Package auth drives the QR-code login flow and persists the session
// cookies it yields.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mdp/qrterminal/v3"

	"github.com/oviron/bilidown/internal/api"
	"github.com/oviron/bilidown/internal/model"
	"github.com/oviron/bilidown/internal/ui"
)

// Poll sub-codes returned inside the poll response body.
const (
	PollConfirmed  = 0
	PollExpired    = 86038
	PollScanned    = 86090
	PollNotScanned = 86101
)

var (
	// ErrExpired means the QR code lapsed before it was confirmed.
	ErrExpired = errors.New("qr code expired")
	// ErrTimeout means the 180 second login ceiling was exceeded.
	ErrTimeout = errors.New("qr login timed out")
)

// Session runs one scan-to-authenticate attempt. The zero value is not
// usable; construct with NewSession. Every collaborator is a field so
// tests can script the poll sequence and collapse the wait schedule.
type Session struct {
	Generate func(ctx context.Context) (*model.QRSession, error)
	Poll     func(ctx context.Context, key string) (*model.QRPoll, []string, error)
	RenderQR func(url string)
	Interval time.Duration
	Timeout  time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error
}

// NewSession wires a session against the live passport endpoints.
func NewSession(c *api.Client) *Session {
	return &Session{
		Generate: func(ctx context.Context) (*model.QRSession, error) {
			return api.GenerateQR(ctx, c)
		},
		Poll: func(ctx context.Context, key string) (*model.QRPoll, []string, error) {
			return api.PollQR(ctx, c, key)
		},
		RenderQR: renderQR,
		Interval: model.DefaultPollInterval,
		Timeout:  model.DefaultLoginTimeout,
		Sleep:    sleepCtx,
	}
}

// Run requests a QR session, renders it and polls until the login is
// confirmed, the code expires, or the timeout ceiling is hit. On
// success it returns the full cookie set captured from the confirming
// response. The loop owns the session: it blocks the caller and keeps
// a single poll in flight at a time.
func (s *Session) Run(ctx context.Context) ([]string, error) {
	qr, err := s.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("request qr code: %w", err)
	}
	ui.PrintInfo("Scan the QR code with the Bilibili app to log in.")
	s.RenderQR(qr.URL)

	var elapsed time.Duration
	for {
		if elapsed > s.Timeout {
			return nil, ErrTimeout
		}
		poll, cookies, err := s.Poll(ctx, qr.QrcodeKey)
		if err != nil {
			return nil, fmt.Errorf("poll login status: %w", err)
		}
		switch poll.Code {
		case PollConfirmed:
			ui.PrintSuccess("Login confirmed.")
			if len(cookies) == 0 {
				return nil, errors.New("login confirmed but no cookies were issued")
			}
			return cookies, nil
		case PollExpired:
			return nil, ErrExpired
		case PollNotScanned:
			ui.PrintInfo("Waiting for scan...")
		case PollScanned:
			ui.PrintInfo("Scanned, waiting for confirmation...")
		default:
			// Transient informational codes keep the loop alive.
			ui.PrintWarning(fmt.Sprintf("Poll returned code %d: %s", poll.Code, poll.Message))
		}
		if err := s.Sleep(ctx, s.Interval); err != nil {
			return nil, err
		}
		elapsed += s.Interval
	}
}

func renderQR(url string) {
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:     qrterminal.L,
		Writer:    os.Stdout,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})
	fmt.Println(url)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
