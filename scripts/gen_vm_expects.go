// Command gen_vm_expects generates free function wrappers around each
// vmTestCase expect* and with* builder method, so that tests can pass them
// around as func(vmTestCase) vmTestCase values.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		args = args[1:]
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("gofmt run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
		case <-ready:
		}

		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		return run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// run writes a wrapper for every vmTestCase builder method that takes
// arguments; argument-less builders read fine as method calls already.
func run(ctx context.Context) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, in.Name(), in, 0)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(1024)
	buf.WriteString("package main\n\n")
	fmt.Fprintf(&buf, "// @generated from %v\n\n", in.Name())
	if args := flag.Args(); len(args) >= 2 {
		buf.WriteString("//go:generate go run scripts/gen_vm_expects.go --")
		for _, arg := range args {
			buf.WriteByte(' ')
			buf.WriteString(arg)
		}
		buf.WriteString("\n\n")
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isBuilder(fn) {
			continue
		}
		base, what := splitBuilderName(fn.Name.Name)

		var params, args []string
		for _, field := range fn.Type.Params.List {
			var typ bytes.Buffer
			if err := printer.Fprint(&typ, fset, field.Type); err != nil {
				return err
			}
			_, variadic := field.Type.(*ast.Ellipsis)
			for _, name := range field.Names {
				params = append(params, name.Name+" "+typ.String())
				if variadic {
					args = append(args, name.Name+"...")
				} else {
					args = append(args, name.Name)
				}
			}
		}

		fmt.Fprintf(&buf, "func %vVM%v(%v) func(vmTestCase) vmTestCase {\n", base, what, strings.Join(params, ", "))
		buf.WriteString("  return func(vmt vmTestCase) vmTestCase {\n")
		fmt.Fprintf(&buf, "    return vmt.%v(%v)\n", fn.Name.Name, strings.Join(args, ", "))
		buf.WriteString("  }\n")
		buf.WriteString("}\n\n")

		if _, err := buf.WriteTo(out); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	_, err = buf.WriteTo(out)
	return err
}

// isBuilder matches methods like:
//
//	func (vmt vmTestCase) expectFoo(args...) vmTestCase
//	func (vmt vmTestCase) withFoo(args...) vmTestCase
func isBuilder(fn *ast.FuncDecl) bool {
	if fn.Recv == nil || len(fn.Recv.List) != 1 || !isIdent(fn.Recv.List[0].Type, "vmTestCase") {
		return false
	}
	if res := fn.Type.Results; res == nil || len(res.List) != 1 || !isIdent(res.List[0].Type, "vmTestCase") {
		return false
	}
	if len(fn.Type.Params.List) == 0 {
		return false
	}
	base, what := splitBuilderName(fn.Name.Name)
	return base != "" && what != ""
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

func splitBuilderName(name string) (base, what string) {
	for _, base := range []string{"expect", "with"} {
		if strings.HasPrefix(name, base) {
			return base, name[len(base):]
		}
	}
	return "", ""
}
