package notify

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "hello", `"hello"`},
		{"empty", "", `""`},
		{"with quotes", `say "hello"`, `"say \"hello\""`},
		{"with backslash", `path\to\file`, `"path\\to\\file"`},
		{"quotes and backslash", `a\"b`, `"a\\\"b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeAppleScript(tt.input)
			if got != tt.want {
				t.Errorf("escapeAppleScript(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

type call struct {
	name string
	args []string
}

func recorder(calls *[]call, err error) Runner {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, call{name, args})
		return err
	}
}

func TestSend_Commands(t *testing.T) {
	tests := []struct {
		goos string
		want call
	}{
		{"linux", call{"notify-send", []string{"-a", "smartbot-widget", "Chat", `Still "there"?`}}},
		{"darwin", call{"osascript", []string{"-e", `display notification "Still \"there\"?" with title "Chat"`}}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var calls []call
			n := NewTestNotifier(tt.goos, recorder(&calls, nil), func() error {
				t.Error("bell should not ring")
				return nil
			})
			if err := n.Send(context.Background(), "Chat", `Still "there"?`); err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if len(calls) != 1 || !reflect.DeepEqual(calls[0], tt.want) {
				t.Errorf("calls = %+v, want %+v", calls, tt.want)
			}
		})
	}
}

func TestSend_BellFallback(t *testing.T) {
	var calls []call
	rang := false
	n := NewTestNotifier("windows", recorder(&calls, nil), func() error {
		rang = true
		return nil
	})
	if err := n.Send(context.Background(), "t", "b"); err != nil {
		t.Fatal(err)
	}
	if !rang || len(calls) != 0 {
		t.Errorf("rang = %v, calls = %v", rang, calls)
	}
}

func TestSend_Error(t *testing.T) {
	var calls []call
	n := NewTestNotifier("linux", recorder(&calls, errors.New("not found")), nil)
	err := n.Send(context.Background(), "t", "b")
	if err == nil || err.Error() != "notify-send failed: not found" {
		t.Errorf("err = %v", err)
	}
}

func TestSend_Disabled(t *testing.T) {
	var calls []call
	n := New(false)
	n.run = recorder(&calls, nil)
	if err := n.Send(context.Background(), "t", "b"); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 0 {
		t.Errorf("disabled notifier ran %v", calls)
	}

	var nilNotifier *Notifier
	if nilNotifier.Enabled() {
		t.Error("nil notifier should be disabled")
	}
}
