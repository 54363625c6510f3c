// Package optimizer rewrites a program into a semantically equivalent,
// smaller one. Passes are pure tree rebuilds, the input program is never
// mutated.
package optimizer

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/ast"
)

type (
	// Options toggles the passes independently. Passes run in a fixed
	// order: folding first, then dead-code elimination.
	Options struct {
		Folding  bool
		DeadCode bool
	}

	// FoldError is a compile-time-detectable always-failing constant
	// expression, found while folding.
	FoldError struct {
		Line   int
		Column int
		Msg    string
	}
)

// All enables every pass.
func All() Options {
	return Options{
		Folding:  true,
		DeadCode: true,
	}
}

func Optimize(ctx context.Context, prog *ast.Program, opts Options) (_ *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "optimize", "folding", opts.Folding, "dead_code", opts.DeadCode)
	defer tr.Finish("err", &err)

	if opts.Folding {
		prog, err = Fold(ctx, prog)
		if err != nil {
			return nil, errors.Wrap(err, "fold constants")
		}
	}

	if opts.DeadCode {
		prog = EliminateDead(ctx, prog)
	}

	return prog, nil
}

func newFoldError(pos ast.Pos, msg string) error {
	return FoldError{
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    msg,
	}
}

func (e FoldError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Msg)
}
