package main

import (
	"testing"
	"time"

	"github.com/scottcagno/hashlab/pkg/util"
	"github.com/scottcagno/hashlab/pkg/web"
)

func Test_ParseOptions_Env(t *testing.T) {
	t.Setenv("HASHLAB_ADDR", ":9999")
	t.Setenv("HASHLAB_CAPACITY", "13")
	t.Setenv("HASHLAB_STRATEGY", "double")
	t.Setenv("HASHLAB_HASH", "")
	opts, err := parseOptions(nil)
	util.AssertNoError(t, err)
	util.AssertExpected(t, ":9999", opts.addr)
	util.AssertExpected(t, 13, opts.capacity)
	util.AssertExpected(t, "double", opts.strategy)
	util.AssertExpected(t, "division", opts.method)
	util.AssertExpected(t, 10*time.Second, opts.grace)
	util.AssertExpected(t, web.DefaultSessionLimit, opts.sessions)
}

func Test_ParseOptions_FlagsWin(t *testing.T) {
	t.Setenv("HASHLAB_CAPACITY", "13")
	t.Setenv("HASHLAB_LOG_LEVEL", "debug")
	t.Setenv("HASHLAB_MAX_SESSIONS", "50")
	opts, err := parseOptions([]string{"-capacity", "7", "-hash", "xxhash", "-max-sessions", "3"})
	util.AssertNoError(t, err)
	util.AssertExpected(t, 7, opts.capacity)
	util.AssertExpected(t, "xxhash", opts.method)
	util.AssertExpected(t, "debug", opts.level)
	util.AssertExpected(t, 3, opts.sessions)
}

func Test_ParseOptions_BadCapacityEnv(t *testing.T) {
	t.Setenv("HASHLAB_CAPACITY", "lots")
	opts, err := parseOptions(nil)
	util.AssertNoError(t, err)
	util.AssertExpected(t, 10, opts.capacity)
}

func Test_Run_BadConfig(t *testing.T) {
	err := run(options{addr: ":0", capacity: 0, strategy: "linear", method: "division", level: "off"})
	if err == nil {
		t.Fatal("expected an error for a zero capacity")
	}
	err = run(options{capacity: 10, strategy: "linear", method: "division", level: "off", sessions: 0})
	if err == nil {
		t.Fatal("expected an error for a zero session limit")
	}
	err = run(options{level: "loud"})
	if err == nil {
		t.Fatal("expected an error for a bad level")
	}
}
