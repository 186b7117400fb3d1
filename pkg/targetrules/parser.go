package targetrules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
)

func init() {
	// rules files use if / for in the global scope
	resolve.AllowGlobalReassign = true
}

type parserCtx struct {
	ctx          context.Context
	options      map[string]ScriptOption
	optionValues map[string]string
	yamlCache    map[string]interface{}
	filepath     string
	projectRoot  string
	rules        RuleSet
	inputs       *Inputs
	initPhase    bool
}

// ScriptOption is an option declared by a rules file with option()
type ScriptOption struct {
	DefaultValue string
	Help         string
}

func getCtx(thread *starlark.Thread) *parserCtx {
	return thread.Local("parserCtx").(*parserCtx)
}

func (c *parserCtx) logPrefix(thread *starlark.Thread) string {
	pos := thread.CallFrame(1).Pos
	return fmt.Sprintf("%s:%d:%d", simplifyPath(c.projectRoot, c.filepath), pos.Line, pos.Col)
}

func info(thread *starlark.Thread, msg string, args ...interface{}) {
	ctx := getCtx(thread)
	log(ctx.ctx).Info().
		Str("path", ctx.filepath).
		Msgf("%s: %s", ctx.logPrefix(thread), fmt.Sprintf(msg, args...))
}

func warn(thread *starlark.Thread, msg string, args ...interface{}) {
	ctx := getCtx(thread)
	log(ctx.ctx).Warn().
		Str("path", ctx.filepath).
		Msgf("%s: %s", ctx.logPrefix(thread), fmt.Sprintf(msg, args...))
}

func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"OS":                    starlark.String(runtime.GOOS),
		"ARCH":                  starlark.String(runtime.GOARCH),
		"BUILD_SETTINGS_LATEST": starlark.String(BuildSettingsLatest.String()),
		"INCLUDE_ORDER_LATEST":  starlark.String(IncludeOrderLatest.String()),
		"INCLUDE_ORDER_OLDEST":  starlark.String(IncludeOrderOldest.String()),
		"info":                  starlark.NewBuiltin("info", starInfo),
		"warn":                  starlark.NewBuiltin("warn", starWarn),
		"error":                 starlark.NewBuiltin("error", starError),
		"resolve_path":          starlark.NewBuiltin("resolve_path", resolvePath),
		"option":                starlark.NewBuiltin("option", option),
		"getenv":                starlark.NewBuiltin("getenv", getenv),
		"read_yaml":             starlark.NewBuiltin("read_yaml", readYaml),
		"isdir":                 starlark.NewBuiltin("isdir", starIsdir),
		"isfile":                starlark.NewBuiltin("isfile", starIsfile),
		"execute":               starlark.NewBuiltin("execute", starExec),
		"target":                starlark.NewBuiltin("target", target),
	}
}

// LoadScript executes a *.target.star rules file and returns the declared targets and options.
// Targets may be declared in the global scope or in an optional configure() function which is
// called after the global scope has been executed. options provides values for option() calls.
func LoadScript(ctx context.Context, filename, projectRoot string, options map[string]string) (RuleSet, map[string]ScriptOption, error) {
	return loadScript(ctx, filename, projectRoot, options, NewInputs())
}

// loadScript is LoadScript but records environment variables, files and commands read by the
// script in inputs.
func loadScript(ctx context.Context, filename, projectRoot string, options map[string]string, inputs *Inputs) (RuleSet, map[string]ScriptOption, error) {
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, nil, err
	}

	filename, err = filepath.Abs(filename)
	if err != nil {
		return nil, nil, err
	}

	if options == nil {
		options = map[string]string{}
	}

	threadCtx := parserCtx{
		ctx:          ctx,
		filepath:     filename,
		projectRoot:  projectRoot,
		options:      make(map[string]ScriptOption),
		optionValues: options,
		yamlCache:    make(map[string]interface{}),
		rules:        RuleSet{},
		inputs:       inputs,
		initPhase:    true,
	}
	shortName := simplifyPath(projectRoot, filename)

	thread := &starlark.Thread{
		Name: "main",
		Print: func(thread *starlark.Thread, msg string) {
			log(ctx).Info().Str("thread", thread.Name).Str("path", filename).Msg(msg)
		},
	}
	thread.SetLocal("parserCtx", &threadCtx)

	script, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "failed to read file %s", shortName)
	}

	log(ctx).Debug().Str("path", filename).Msgf("Loading %s", shortName)

	globals, err := starlark.ExecFile(thread, shortName, script, predeclared())
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return nil, nil, eris.Errorf("failed to execute %s:\n%s", shortName, evalError.Backtrace())
		}
		return nil, nil, eris.Wrapf(err, "failed to execute %s", shortName)
	}

	if configure, ok := globals["configure"]; ok {
		configureFunc, ok := configure.(starlark.Callable)
		if !ok {
			return nil, nil, eris.Errorf("%s did declare a configure value but it's not a function", shortName)
		}

		threadCtx.initPhase = false
		_, err = starlark.Call(thread, configureFunc, starlark.Tuple{}, nil)
		if err != nil {
			if evalError, ok := err.(*starlark.EvalError); ok {
				return nil, nil, eris.Errorf("failed configure call in %s:\n%s", shortName, evalError.Backtrace())
			}
			return nil, nil, eris.Wrapf(err, "failed configure call in %s", shortName)
		}
	}

	if len(threadCtx.rules) == 0 {
		log(ctx).Warn().Str("path", filename).Msgf("%s doesn't declare any targets", shortName)
	}

	return threadCtx.rules, threadCtx.options, nil
}
