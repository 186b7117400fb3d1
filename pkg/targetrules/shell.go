package targetrules

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

// shellWord builds a single word that's passed through as-is (no globbing or field splitting).
func shellWord(value string) *syntax.Word {
	return &syntax.Word{Parts: []syntax.WordPart{&syntax.SglQuoted{Value: value}}}
}

// buildCallExpr turns ("CC=clang", "git", "describe") into a call expression. Leading KEY=value
// items become assignments for that call.
func buildCallExpr(parts []starlark.Value, parser *syntax.Parser) (*syntax.CallExpr, error) {
	cmd := new(syntax.CallExpr)

	idx := 0
	for ; idx < len(parts); idx++ {
		value, ok := parts[idx].(starlark.String)
		if !ok || !strings.Contains(value.GoString(), "=") {
			break
		}

		file, err := parser.Parse(strings.NewReader(value.GoString()), "env var")
		if err != nil {
			return nil, eris.Wrapf(err, "failed to parse assignment %s", value.GoString())
		}

		if len(file.Stmts) != 1 {
			return nil, eris.Errorf("malformed assignment %s", value.GoString())
		}

		call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
		if !ok || len(call.Assigns) != 1 || len(call.Args) != 0 {
			return nil, eris.Errorf("malformed assignment %s", value.GoString())
		}
		cmd.Assigns = append(cmd.Assigns, call.Assigns[0])
	}

	if idx == len(parts) {
		return nil, eris.New("the command is missing")
	}

	for _, arg := range parts[idx:] {
		value, ok := arg.(starlark.String)
		if !ok {
			return nil, eris.Errorf("found argument of type %s but only strings are supported: %s", arg.Type(), arg.String())
		}

		cmd.Args = append(cmd.Args, shellWord(value.GoString()))
	}

	return cmd, nil
}

// execute(command, format="text", show_error=False) runs a shell command with the rules file's
// directory as working directory and returns its output, or False if it failed.
func starExec(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var command starlark.Value
	var outputFormat string
	var showError bool

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "command", &command, "format?", &outputFormat, "show_error?", &showError)
	if err != nil {
		return nil, err
	}

	if outputFormat == "" {
		outputFormat = "text"
	}

	if outputFormat != "text" && outputFormat != "json" {
		return nil, eris.Errorf("unsupported format %s", outputFormat)
	}

	var nodes []syntax.Node
	parser := syntax.NewParser()
	ctx := getCtx(thread)
	ctx.inputs.markUncacheable(ctx.filepath)

	switch command := command.(type) {
	case starlark.String:
		file, err := parser.Parse(strings.NewReader(command.GoString()), fn.Name())
		if err != nil {
			return nil, eris.Wrapf(err, "failed to parse command %s", command.GoString())
		}

		for _, stmt := range file.Stmts {
			nodes = append(nodes, stmt)
		}
	case starlark.Tuple:
		expr, err := buildCallExpr(command, parser)
		if err != nil {
			return nil, err
		}

		nodes = []syntax.Node{expr}
	case *starlark.List:
		parts := make([]starlark.Value, command.Len())
		for idx := range parts {
			parts[idx] = command.Index(idx)
		}

		expr, err := buildCallExpr(parts, parser)
		if err != nil {
			return nil, err
		}

		nodes = []syntax.Node{expr}
	default:
		return nil, eris.Errorf("unexpected type %s for command parameter, only strings, tuples and lists are valid", command.Type())
	}

	output := strings.Builder{}
	var errOut io.Writer = io.Discard
	if showError {
		errOut = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(filepath.Dir(ctx.filepath)),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.ExecHandler(defaultExecHandler),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, &output, errOut),
		interp.Params("-e"),
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to initialize runner")
	}

	for _, node := range nodes {
		err := runner.Run(ctx.ctx, node)
		if err != nil {
			if showError {
				log(ctx.ctx).Error().Err(err).Str("path", ctx.filepath).Msg("shell error")
			}
			return starlark.False, nil
		}

		if runner.Exited() {
			break
		}
	}

	if outputFormat == "json" {
		var decoded interface{}
		err = json.Unmarshal([]byte(output.String()), &decoded)
		if err != nil {
			return nil, eris.Wrap(err, "failed to parse command output")
		}

		return interfaceToStarlark(decoded)
	}

	return starlark.String(output.String()), nil
}
