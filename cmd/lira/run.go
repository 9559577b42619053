package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gitrdm/lira/internal/config"
	"github.com/gitrdm/lira/pkg/lira"
)

// scriptError wraps a bad line in a script (unknown verb, malformed
// expression) so the caller can distinguish it from a runtime engine error
// and map it to exit code 4, per spec.md §6 "4 parse error".
type scriptError struct{ err error }

func (e *scriptError) Error() string { return e.err.Error() }
func (e *scriptError) Unwrap() error { return e.err }

func parseHandle(s string) (lira.SnapshotHandle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return lira.SnapshotHandle{}, fmt.Errorf("lira: invalid save handle %q: %w", s, err)
	}
	return lira.SnapshotHandle(id), nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "run a script of one verb per line against a fresh engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			status, err := runScript(cmd.OutOrStdout(), f, cfg)
			if err != nil {
				var se *scriptError
				if errors.As(err, &se) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					os.Exit(4)
				}
				return err
			}
			if status == lira.StatusUnsat {
				os.Exit(3)
			}
			return nil
		},
	}
	return cmd
}

// session is the interpreter state threaded through one script run: the
// engine, its expression reader (which also keeps the name→VarID table for
// verbs (find) that need a handle rather than a fresh declaration), and a
// stack of save handles so `undo` can pop the most recent one.
type session struct {
	facade *lira.Facade
	reader *reader
	saves  []lira.SnapshotHandle
	out    io.Writer
}

func runScript(out io.Writer, in io.Reader, cfg config.Config) (lira.Status, error) {
	facade := lira.NewFacade()
	if cfg.LogLevel > 0 {
		l, err := lira.NewLogger(cfg.LogLevel)
		if err != nil {
			return lira.StatusUnknown, err
		}
		facade.WithLogger(l)
	}
	sess := &session{
		facade: facade,
		reader: newReader(facade, cfg.IntegerDefault),
		out:    out,
	}

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := sess.dispatch(line); err != nil {
			if ie, ok := lira.AsInconsistent(err); ok {
				fmt.Fprintf(out, "unsat (core size %d)\n", ie.Just.Len())
				return lira.StatusUnsat, nil
			}
			return lira.StatusUnknown, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return lira.StatusUnknown, err
	}
	return facade.Status(), nil
}

func (s *session) dispatch(line string) error {
	verb, rest := splitVerb(line)
	switch verb {
	case "declare":
		return s.cmdDeclare(rest)
	case "assert":
		return s.cmdAssert(rest)
	case "resolve":
		return s.cmdResolve()
	case "status":
		fmt.Fprintln(s.out, s.facade.Status())
		return nil
	case "can":
		return s.cmdCan(rest)
	case "inf":
		return s.cmdBound(rest, s.facade.Inf)
	case "sup":
		return s.cmdBound(rest, s.facade.Sup)
	case "find":
		return s.cmdFind(rest)
	case "inv":
		return s.cmdInv(rest)
	case "reset":
		s.facade.Reset()
		s.reader = newReader(s.facade, s.reader.intByDefl)
		s.saves = nil
		return nil
	case "save":
		h := s.facade.Save()
		s.saves = append(s.saves, h)
		fmt.Fprintln(s.out, h)
		return nil
	case "restore":
		return s.cmdRestore(rest)
	case "undo":
		return s.cmdUndo()
	case "remove", "forget":
		// Spec's Non-goals exclude incremental retraction of individual
		// assertions; these verbs are accepted for informative CLI
		// compatibility but do nothing.
		fmt.Fprintln(s.out, "lira: retraction is not supported, ignoring")
		return nil
	default:
		return &scriptError{fmt.Errorf("lira: unknown verb %q", verb)}
	}
}

func splitVerb(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func (s *session) cmdDeclare(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return &scriptError{fmt.Errorf("lira: declare needs a variable name")}
	}
	sort := lira.SortReal
	if len(fields) > 1 {
		switch fields[1] {
		case "int":
			sort = lira.SortInt
		case "real":
			sort = lira.SortReal
		default:
			return &scriptError{fmt.Errorf("lira: unknown sort %q", fields[1])}
		}
	}
	p := s.facade.DeclareVar(fields[0], sort)
	if v, ok := p.IsBareVar(); ok {
		s.reader.seen[fields[0]] = v
	}
	return nil
}

func (s *session) cmdAssert(rest string) error {
	phi, err := s.reader.ParseFormula(rest)
	if err != nil {
		return &scriptError{err}
	}
	status, err := s.facade.Process(phi)
	if err != nil {
		return err
	}
	if status == lira.StatusUnsat {
		return lira.Inconsistent(s.facade.Core())
	}
	return nil
}

func (s *session) cmdResolve() error {
	status, err := s.facade.Resolve()
	if err != nil {
		return err
	}
	if status == lira.StatusUnsat {
		return lira.Inconsistent(s.facade.Core())
	}
	fmt.Fprintln(s.out, status)
	return nil
}

func (s *session) cmdCan(rest string) error {
	p, err := s.reader.ParseTerm(rest)
	if err != nil {
		return &scriptError{err}
	}
	fmt.Fprintln(s.out, s.facade.Can(p))
	return nil
}

func (s *session) cmdBound(rest string, fn func(lira.Polynomial) (lira.Rational, error)) error {
	p, err := s.reader.ParseTerm(rest)
	if err != nil {
		return &scriptError{err}
	}
	q, err := fn(p)
	if err != nil {
		if errors.Is(err, lira.ErrNotFound) || errors.Is(err, lira.ErrUnbounded) {
			fmt.Fprintln(s.out, "unbounded")
			return nil
		}
		return err
	}
	fmt.Fprintln(s.out, q)
	return nil
}

func (s *session) cmdFind(rest string) error {
	name := strings.TrimSpace(rest)
	x, ok := s.reader.Lookup(name)
	if !ok {
		return &scriptError{fmt.Errorf("lira: %q was never declared or asserted", name)}
	}
	p, ok := s.facade.Find(lira.TheoryArithmetic, x)
	if !ok {
		fmt.Fprintln(s.out, "not-found")
		return nil
	}
	fmt.Fprintln(s.out, p)
	return nil
}

func (s *session) cmdInv(rest string) error {
	p, err := s.reader.ParseTerm(rest)
	if err != nil {
		return &scriptError{err}
	}
	x, ok := s.facade.Inv(p)
	if !ok {
		fmt.Fprintln(s.out, "not-found")
		return nil
	}
	fmt.Fprintln(s.out, x)
	return nil
}

func (s *session) cmdRestore(rest string) error {
	idx, err := strconv.Atoi(strings.TrimSpace(rest))
	if err == nil {
		if idx < 0 || idx >= len(s.saves) {
			return fmt.Errorf("lira: no save slot %d", idx)
		}
		ok, rerr := s.facade.Restore(s.saves[idx])
		if rerr != nil {
			return rerr
		}
		if !ok {
			return fmt.Errorf("lira: save slot %d no longer valid", idx)
		}
		return nil
	}
	h, perr := parseHandle(rest)
	if perr != nil {
		return &scriptError{perr}
	}
	ok, rerr := s.facade.Restore(h)
	if rerr != nil {
		return rerr
	}
	if !ok {
		return fmt.Errorf("lira: unknown save handle %q", rest)
	}
	return nil
}

func (s *session) cmdUndo() error {
	if len(s.saves) == 0 {
		return fmt.Errorf("lira: nothing to undo")
	}
	h := s.saves[len(s.saves)-1]
	s.saves = s.saves[:len(s.saves)-1]
	ok, err := s.facade.Restore(h)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("lira: save handle %s no longer valid", h)
	}
	return nil
}
