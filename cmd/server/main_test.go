package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stellarlinkco/mmlu-eval/api"
	"github.com/stellarlinkco/mmlu-eval/internal/config"
	"github.com/stellarlinkco/mmlu-eval/internal/history"
)

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad, origOpen, origNew, origRun := loadConfig, openStore, newServer, runServer
	origErr := stderrWriter
	t.Cleanup(func() {
		loadConfig, openStore, newServer, runServer = origLoad, origOpen, origNew, origRun
		stderrWriter = origErr
	})
}

func TestRunMain_DefaultsWhenConfigMissing(t *testing.T) {
	restoreSeams(t)
	t.Setenv("MMLU_EVAL_DISABLE_AUTH", "true")

	var gotAddr string
	openStore = func(cfg *config.Config) (*history.Store, error) {
		return history.NewStore(":memory:")
	}
	runServer = func(s *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}

	if code := runMain(nil); code != 0 {
		t.Fatalf("exit code: got %d want 0", code)
	}
	if gotAddr != config.Default().Server.Addr {
		t.Fatalf("addr: got %q want %q", gotAddr, config.Default().Server.Addr)
	}
}

func TestRunMain_AddrFlagOverridesConfig(t *testing.T) {
	restoreSeams(t)
	t.Setenv("MMLU_EVAL_DISABLE_AUTH", "true")

	var gotAddr string
	openStore = func(cfg *config.Config) (*history.Store, error) {
		return history.NewStore(":memory:")
	}
	runServer = func(s *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}

	if code := runMain([]string{"--addr", ":9999"}); code != 0 {
		t.Fatalf("exit code: got %d want 0", code)
	}
	if gotAddr != ":9999" {
		t.Fatalf("addr: got %q want :9999", gotAddr)
	}
}

func TestRunMain_ExplicitConfigMissing(t *testing.T) {
	restoreSeams(t)

	var buf bytes.Buffer
	stderrWriter = &buf

	if code := runMain([]string{"--config", "nope/definitely-missing.yaml"}); code != 1 {
		t.Fatalf("exit code: got %d want 1", code)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected an error message on stderr")
	}
}

func TestRunMain_StoreError(t *testing.T) {
	restoreSeams(t)

	var buf bytes.Buffer
	stderrWriter = &buf
	openStore = func(cfg *config.Config) (*history.Store, error) {
		return nil, errors.New("disk on fire")
	}

	if code := runMain(nil); code != 1 {
		t.Fatalf("exit code: got %d want 1", code)
	}
	if !strings.Contains(buf.String(), "disk on fire") {
		t.Fatalf("stderr: got %q", buf.String())
	}
}

func TestRunMain_BadFlag(t *testing.T) {
	restoreSeams(t)
	stderrWriter = &bytes.Buffer{}

	if code := runMain([]string{"--no-such-flag"}); code != 2 {
		t.Fatalf("exit code: got %d want 2", code)
	}
}
