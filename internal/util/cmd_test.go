package util

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"runtime"
	"testing"
	"time"
)

type blockingRunner struct {
	err error // returned immediately when set
}

func (b blockingRunner) Run(ctx context.Context, _ CmdSpec) (CmdResult, error) {
	if b.err != nil {
		return CmdResult{Code: 1}, b.err
	}
	<-ctx.Done()
	return CmdResult{Code: -1}, ctx.Err()
}

type okRunner struct{}

func (okRunner) Run(context.Context, CmdSpec) (CmdResult, error) {
	return CmdResult{Stdout: []byte("ok")}, nil
}

func TestRunWithTimeout(t *testing.T) {
	t.Run("deadline", func(t *testing.T) {
		_, err := RunWithTimeout(context.Background(), blockingRunner{}, 10*time.Millisecond, CmdSpec{Path: "ffmpeg"})
		if !errors.Is(err, ErrTimeout) || errors.Is(err, ErrCanceled) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
	})

	t.Run("parent canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := RunWithTimeout(ctx, blockingRunner{}, time.Minute, CmdSpec{Path: "ffmpeg"})
		if !errors.Is(err, ErrCanceled) || errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrCanceled", err)
		}
	})

	t.Run("plain failure", func(t *testing.T) {
		boom := errors.New("exit status 1")
		_, err := RunWithTimeout(context.Background(), blockingRunner{err: boom}, time.Minute, CmdSpec{Path: "ffmpeg"})
		if !errors.Is(err, boom) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrCanceled) {
			t.Fatalf("err = %v, want the runner error", err)
		}
	})

	t.Run("success is kept", func(t *testing.T) {
		res, err := RunWithTimeout(context.Background(), okRunner{}, 0, CmdSpec{Path: "ffprobe"})
		if err != nil || string(res.Stdout) != "ok" {
			t.Fatalf("res=%q err=%v", res.Stdout, err)
		}
	})
}

func TestLineWriter(t *testing.T) {
	var lines []string
	var captured bytes.Buffer
	w := &lineWriter{fn: func(s string) { lines = append(lines, s) }, capture: &captured}

	_, _ = w.Write([]byte("out_time_ms=1\r\nprog"))
	_, _ = w.Write([]byte("ress=continue\nlast"))
	w.Flush()

	want := []string{"out_time_ms=1", "progress=continue", "last"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	if captured.String() != "out_time_ms=1\r\nprogress=continue\nlast" {
		t.Fatalf("captured = %q", captured.String())
	}
}

func TestDefaultRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	var errLines []string
	res, err := NewDefaultRunner(nil).Run(context.Background(), CmdSpec{
		Path:       "sh",
		Args:       []string{"-c", `echo "$GREETING"; echo warn >&2; exit 3`},
		Env:        []string{"GREETING=hello"},
		StderrLine: func(s string) { errLines = append(errLines, s) },
	})
	if err == nil || res.Code != 3 {
		t.Fatalf("code=%d err=%v, want exit 3", res.Code, err)
	}
	if string(res.Stdout) != "hello\n" || string(res.Stderr) != "warn\n" {
		t.Fatalf("stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if !reflect.DeepEqual(errLines, []string{"warn"}) {
		t.Fatalf("stderr lines = %q", errLines)
	}

	res, err = NewDefaultRunner(nil).Run(context.Background(), CmdSpec{Path: "/nonexistent/tool"})
	if err == nil || res.Code != -1 {
		t.Fatalf("missing binary: code=%d err=%v", res.Code, err)
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"":                 "''",
		"plain":            "plain",
		"/movies/a b.mkv":  "'/movies/a b.mkv'",
		"it's":             `'it'\''s'`,
		"$HOME":            "'$HOME'",
		"-c:s":             "-c:s",
		"Movie #1 ~ x.mkv": "'Movie #1 ~ x.mkv'",
	}
	for in, want := range tests {
		if got := Quote(in); got != want {
			t.Errorf("Quote(%q) = %q, want %q", in, got, want)
		}
	}
	if got := ShellQuote("ffmpeg", []string{"-i", "a b.mkv"}); got != "ffmpeg -i 'a b.mkv'" {
		t.Errorf("ShellQuote = %q", got)
	}
}
