package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPrompter(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"ok\n", true},
		{"  OK  \n", true},
		{"ok", true},
		{"yes\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		confirm := newPrompter(strings.NewReader(tc.input), &out)
		got, err := confirm(context.Background(), "Proceed?")
		if err != nil {
			t.Fatalf("input %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("input %q: got %v want %v", tc.input, got, tc.want)
		}
		if !strings.Contains(out.String(), "Proceed?") {
			t.Errorf("input %q: prompt not written", tc.input)
		}
	}
}

func TestPrompterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	confirm := newPrompter(strings.NewReader("ok\n"), &bytes.Buffer{})
	if _, err := confirm(ctx, "Proceed?"); err == nil {
		t.Fatal("expected cancellation error")
	}
}
