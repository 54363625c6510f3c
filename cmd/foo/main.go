package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler"
	"github.com/foolang/foo/compiler/lexer"
	"github.com/foolang/foo/compiler/parser"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:   "compile",
		Action: compileAct,
		Args:   cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "write output to file instead of stdout"),
			cli.NewFlag("optimize", true, "enable optimizations"),
		},
	}

	app := &cli.Command{
		Name:        "foo",
		Description: "foo compiles foo source code to javascript",
		Commands: []*cli.Command{
			parseCmd,
			compileCmd,
		},
		Flags: []*cli.Flag{
			cli.NewFlag("verbosity,v", "", "tlog verbosity topics"),
			cli.HelpFlag,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func rootContext(c *cli.Command) context.Context {
	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(os.Stderr, tlog.LstdFlags))
	tlog.SetVerbosity(c.String("verbosity"))

	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func parseAct(c *cli.Command) (err error) {
	ctx := rootContext(c)

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		toks, err := lexer.Tokenize(ctx, text)
		if err != nil {
			return errors.Wrap(err, "tokenize %v", a)
		}

		prog, err := parser.Parse(ctx, toks)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", prog)
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := rootContext(c)

	opts := compiler.Options{
		Optimize: c.Bool("optimize"),
	}

	for _, a := range c.Args {
		obj, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		if out := c.String("output"); out != "" {
			err = os.WriteFile(out, obj, 0o644)
			if err != nil {
				return errors.Wrap(err, "write %v", out)
			}

			continue
		}

		fmt.Printf("%s", obj)
	}

	return nil
}
