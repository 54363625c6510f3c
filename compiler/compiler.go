package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/codegen"
	"github.com/foolang/foo/compiler/lexer"
	"github.com/foolang/foo/compiler/optimizer"
	"github.com/foolang/foo/compiler/parser"
)

// Options is the caller-supplied configuration. There is no process-wide
// state, the flags travel with the call.
type Options struct {
	// Optimize enables constant folding and dead-code elimination.
	Optimize bool
}

// DefaultOptions enables the optimizer.
func DefaultOptions() Options {
	return Options{
		Optimize: true,
	}
}

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, opts)
}

func Compile(ctx context.Context, name string, text []byte, opts Options) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name, "optimize", opts.Optimize)
	defer tr.Finish("err", &err)

	toks, err := lexer.Tokenize(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	prog, err := parser.Parse(ctx, toks)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	if opts.Optimize {
		prog, err = optimizer.Optimize(ctx, prog, optimizer.All())
		if err != nil {
			return nil, errors.Wrap(err, "optimize")
		}
	}

	return codegen.Generate(ctx, prog), nil
}
