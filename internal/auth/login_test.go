package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oviron/bilidown/internal/model"
)

// scriptedSession returns a session whose poll responses are taken from
// codes in order, repeating the last one, and whose waits are counted
// instead of slept.
func scriptedSession(codes []int, cookies []string) (*Session, *time.Duration) {
	var simulated time.Duration
	call := 0
	s := &Session{
		Generate: func(ctx context.Context) (*model.QRSession, error) {
			return &model.QRSession{URL: "https://passport.example/qr", QrcodeKey: "key"}, nil
		},
		Poll: func(ctx context.Context, key string) (*model.QRPoll, []string, error) {
			code := codes[len(codes)-1]
			if call < len(codes) {
				code = codes[call]
			}
			call++
			var issued []string
			if code == PollConfirmed {
				issued = cookies
			}
			return &model.QRPoll{Code: code}, issued, nil
		},
		RenderQR: func(string) {},
		Interval: model.DefaultPollInterval,
		Timeout:  model.DefaultLoginTimeout,
		Sleep: func(ctx context.Context, d time.Duration) error {
			simulated += d
			return nil
		},
	}
	return s, &simulated
}

func TestRun_ConfirmedCapturesFinalCookies(t *testing.T) {
	want := []string{"SESSDATA=xyz; Path=/", "bili_jct=123; Path=/"}
	s, _ := scriptedSession([]int{PollNotScanned, PollNotScanned, PollScanned, PollConfirmed}, want)

	got, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d cookies, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cookie %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRun_UnknownCodeKeepsPolling(t *testing.T) {
	s, _ := scriptedSession([]int{86099, PollConfirmed}, []string{"SESSDATA=1"})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("unknown sub-code should not be terminal: %v", err)
	}
}

func TestRun_Expired(t *testing.T) {
	s, _ := scriptedSession([]int{PollNotScanned, PollExpired}, nil)
	_, err := s.Run(context.Background())
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestRun_TimesOutAfterCeiling(t *testing.T) {
	s, simulated := scriptedSession([]int{PollNotScanned}, nil)
	_, err := s.Run(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if *simulated < model.DefaultLoginTimeout {
		t.Fatalf("timed out after only %v of simulated waiting", *simulated)
	}
}

func TestRun_GenerateFailureIsTerminal(t *testing.T) {
	wantErr := errors.New("api error -412: rejected")
	s, _ := scriptedSession([]int{PollConfirmed}, []string{"c"})
	s.Generate = func(ctx context.Context) (*model.QRSession, error) {
		return nil, wantErr
	}
	_, err := s.Run(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected generate error to propagate, got %v", err)
	}
}

func TestRun_PollTransportErrorIsTerminal(t *testing.T) {
	wantErr := errors.New("connection reset")
	s, _ := scriptedSession([]int{PollConfirmed}, []string{"c"})
	s.Poll = func(ctx context.Context, key string) (*model.QRPoll, []string, error) {
		return nil, nil, wantErr
	}
	_, err := s.Run(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected poll error to propagate, got %v", err)
	}
}
