package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/sculpt/buffer"
	"github.com/randalmurphal/sculpt/engine"
	"github.com/randalmurphal/sculpt/settings"
)

type runOptions struct {
	statePath   string
	instruction string
	write       bool
	quiet       bool
}

func newRunCommand(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [instruction...]",
		Short: "Apply one instruction to a state file and print the result",
		Long: `run performs a single sculpt without the terminal editor.

The state is read from --state (a file path, or - for stdin) and the
instruction from --instruction or the remaining arguments. The reply is
streamed to stdout as it arrives. Timing and token figures go to stderr.`,
		Example: `  sculpt run --state main.go "rename foo to bar"
  cat notes.md | sculpt run --state - --instruction "make it a bulleted list"
  sculpt run --state main.go --write "add doc comments"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.instruction == "" {
				opts.instruction = strings.Join(args, " ")
			}
			if strings.TrimSpace(opts.instruction) == "" {
				return errors.New("an instruction is required")
			}
			if opts.write && (opts.statePath == "" || opts.statePath == "-") {
				return errors.New("--write needs --state to name a file")
			}

			if err := a.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			defer a.shutdown()
			if err := a.startMetrics(); err != nil {
				return err
			}
			return a.runOnce(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.statePath, "state", "s", "", "state file, or - for stdin (default: empty state)")
	f.StringVarP(&opts.instruction, "instruction", "i", "", "instruction to apply")
	f.BoolVarP(&opts.write, "write", "w", false, "write the result back to the state file on success")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "print only the final state")
	return cmd
}

func (a *app) runOnce(cmd *cobra.Command, opts runOptions) error {
	initial, err := readState(cmd.InOrStdin(), opts.statePath)
	if err != nil {
		return err
	}

	state := buffer.NewText(initial)
	instr := buffer.NewText(opts.instruction)
	store := settings.Layered{Base: a.store, Apply: a.overrides}

	out := cmd.OutOrStdout()
	var tail *streamWriter
	if !opts.quiet {
		tail = &streamWriter{w: out}
		defer state.OnChange(tail.update)()
	}

	eng := engine.New(state, instr, store,
		engine.WithLogger(a.logger),
		engine.WithMetrics(a.metrics),
		engine.WithTimeout(a.v.GetDuration(keyTimeout)),
	)
	res, _ := eng.Sculpt(cmd.Context())

	if opts.quiet {
		fmt.Fprint(out, state.Value())
	}
	if !strings.HasSuffix(state.Value(), "\n") {
		fmt.Fprintln(out)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), summary(res))

	if res.Err != nil {
		return res.Err
	}
	if opts.write {
		if err := os.WriteFile(opts.statePath, []byte(res.FinalState), 0o644); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
	}
	return nil
}

func readState(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return "", nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read state: %w", err)
	}
	return string(data), nil
}

// streamWriter prints the growing state as it is rewritten. The engine
// always writes the whole accumulated reply, so only the part past what
// has already been printed goes out.
type streamWriter struct {
	mu      sync.Mutex
	w       io.Writer
	printed string
}

func (s *streamWriter) update(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !strings.HasPrefix(v, s.printed) {
		return
	}
	fmt.Fprint(s.w, v[len(s.printed):])
	s.printed = v
}

func summary(res engine.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s  %.2fs", res.Config.Provider, res.Config.ResolvedModel(), res.Elapsed.Seconds())
	if res.OutputTokens != nil {
		fmt.Fprintf(&b, "  %d tok", *res.OutputTokens)
	}
	if res.TokensPerSecond != nil {
		fmt.Fprintf(&b, "  %.1f tok/s", *res.TokensPerSecond)
	}
	if res.Err != nil {
		b.WriteString("  failed")
	}
	return b.String()
}
