// Command hashlab runs a batch of table operations and prints every result
// as one json line:
//
//	hashlab -capacity 10 -strategy quadratic -hash division insert:5 insert:15 search:15 delete:5 stats
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/logger"
	"github.com/scottcagno/hashlab/pkg/session"
	"github.com/scottcagno/hashlab/pkg/util"
)

func main() {
	var (
		capacity = flag.Int("capacity", session.DefaultCapacity, "number of slots")
		strategy = flag.String("strategy", "linear", "linear, quadratic, double or chaining")
		method   = flag.String("hash", "division", "division, midsquare, folding, multiplication or xxhash")
		history  = flag.Int("history", 0, "number of collisions to remember (0 uses the default)")
		level    = flag.String("log", "warn", "log level written to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] op...\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "ops: insert:K search:K delete:K random:N stats layout reset")
		flag.PrintDefaults()
	}
	flag.Parse()

	lvl, err := logger.ParseLevel(*level)
	if err != nil {
		fail(err)
	}
	log := logger.NewLogger(os.Stderr)
	log.SetLevel(lvl)
	log.SetPrefix("hashlab ")

	conf, err := session.ParseConfig(*capacity, *strategy, *method)
	if err != nil {
		fail(err)
	}
	conf.HistorySize = *history
	cmds, err := parseCommands(flag.Args())
	if err != nil {
		fail(err)
	}
	sess, err := session.New(conf, session.WithLogger(log))
	if err != nil {
		fail(err)
	}
	common.ErrCheck(run(sess, cmds, os.Stdout))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "hashlab: %v\n", err)
	flag.Usage()
	os.Exit(2)
}

// command is a single parsed op
type command struct {
	op  string
	arg int
}

// parseCommands parses args of the form op or op:int
func parseCommands(args []string) ([]command, error) {
	cmds := make([]command, 0, len(args))
	for _, arg := range args {
		op, val, hasVal := strings.Cut(arg, ":")
		op = strings.ToLower(op)
		cmd := command{op: op}
		switch op {
		case "insert", "search", "delete", "random":
			if !hasVal {
				return nil, errors.Errorf("%s needs an argument, as in %s:5", op, op)
			}
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, errors.Wrapf(err, "bad argument to %s", op)
			}
			if op == "random" && n < 0 {
				return nil, errors.Errorf("random needs a count of zero or more, got %d", n)
			}
			cmd.arg = n
		case "stats", "layout", "reset":
			if hasVal {
				return nil, errors.Errorf("%s takes no argument", op)
			}
		default:
			return nil, errors.Errorf("unknown op %q", arg)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// line is one json output record
type line struct {
	Op     string      `json:"op"`
	Key    *int        `json:"key,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// run applies cmds to sess in order. Rejected operations are reported in
// their output line and do not stop the batch; only a failing writer does.
func run(sess *session.Session, cmds []command, w io.Writer) error {
	enc := json.NewEncoder(w)
	emit := func(op string, key *int, res interface{}, err error) error {
		l := line{Op: op, Key: key, Result: res}
		if err != nil {
			l.Error = err.Error()
		}
		return enc.Encode(l)
	}
	for _, cmd := range cmds {
		k := cmd.arg
		var err error
		switch cmd.op {
		case "insert":
			res, opErr := sess.Insert(k)
			err = emit(cmd.op, &k, res, opErr)
		case "search":
			res, opErr := sess.Search(k)
			err = emit(cmd.op, &k, res, opErr)
		case "delete":
			res, opErr := sess.Delete(k)
			err = emit(cmd.op, &k, res, opErr)
		case "random":
			// keys up to ten times the capacity keep the output readable
			for _, key := range util.RandKeys(k, 10*sess.Config().Capacity) {
				key := key
				res, opErr := sess.Insert(key)
				if err = emit("insert", &key, res, opErr); err != nil {
					break
				}
			}
		case "stats":
			err = emit(cmd.op, nil, sess.Stats(), nil)
		case "layout":
			err = emit(cmd.op, nil, sess.View(), nil)
		case "reset":
			sess.Reset()
			err = emit(cmd.op, nil, sess.Config(), nil)
		}
		if err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	return nil
}
