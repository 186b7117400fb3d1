package targetrules

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
	"gopkg.in/yaml.v3"
)

func target(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	typeName := Game.String()
	buildSettings := BuildSettingsLatest.String()
	includeOrder := IncludeOrderLatest.String()
	var extraModules *starlark.List

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "type?", &typeName,
		"build_settings?", &buildSettings, "include_order?", &includeOrder, "extra_modules?", &extraModules)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, eris.Errorf("%s: the name can't be empty", fn.Name())
	}

	ctx := getCtx(thread)
	if _, present := ctx.rules[name]; present {
		return nil, eris.Wrapf(ErrDuplicateTarget, "%s: %s", fn.Name(), name)
	}

	rules := &TargetRules{
		Name:   name,
		Source: simplifyPath(ctx.projectRoot, ctx.filepath),
	}

	rules.TargetType, err = ParseTargetType(typeName)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: invalid type for %s", fn.Name(), name)
	}

	rules.BuildSettings, err = ParseBuildSettingsVersion(buildSettings)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: invalid build_settings for %s", fn.Name(), name)
	}

	rules.IncludeOrder, err = ParseIncludeOrderVersion(includeOrder)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: invalid include_order for %s", fn.Name(), name)
	}

	rules.ExtraModules, err = starlarkIterable2stringSlice(extraModules, "extra_modules")
	if err != nil {
		return nil, err
	}

	for idx, module := range rules.ExtraModules {
		if module == "" {
			return nil, eris.Errorf("%s: extra_modules[%d] of %s is empty", fn.Name(), idx, name)
		}
	}

	if len(rules.ExtraModules) == 0 {
		warn(thread, "%s: %s doesn't register any extra modules", fn.Name(), name)
	}

	ctx.rules[name] = rules
	return rules, nil
}

func option(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var defaultValue string
	var help string

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &defaultValue, "help?", &help)
	if err != nil {
		return nil, err
	}

	ctx := getCtx(thread)
	if !ctx.initPhase {
		return nil, eris.New("can only be called during the init phase (in the global scope)")
	}

	ctx.options[name] = ScriptOption{
		DefaultValue: defaultValue,
		Help:         help,
	}

	value, ok := ctx.optionValues[name]
	if ok {
		return starlark.String(value), nil
	}

	return starlark.String(defaultValue), nil
}

func resolvePath(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	base := ""
	ctx := getCtx(thread)

	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		if key != "base" {
			return nil, eris.Errorf("unexpected keyword argument %s", key)
		}

		value, ok := kv[1].(starlark.String)
		if !ok {
			return nil, eris.Errorf("invalid type %s for keyword base, expected string", kv[1].Type())
		}
		base = normalizePath(ctx, value.GoString())
	}

	if len(args) < 1 {
		return nil, eris.New("expects at least one argument")
	}

	parts := make([]string, len(args))
	for idx, path := range args {
		value, ok := path.(starlark.String)
		if !ok {
			return nil, eris.Errorf("only accepts string arguments but argument %d was a %s", idx, path.Type())
		}
		parts[idx] = value.GoString()
	}

	normPath := normalizePath(ctx, parts...)
	if base != "" {
		var err error
		normPath, err = filepath.Rel(base, normPath)
		if err != nil {
			return nil, err
		}
	}

	return starlark.String(filepath.ToSlash(normPath)), nil
}

func starInfo(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message)
	if err != nil {
		return nil, err
	}

	info(thread, "%s", message)
	return starlark.None, nil
}

func starWarn(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message)
	if err != nil {
		return nil, err
	}

	warn(thread, "%s", message)
	return starlark.None, nil
}

func starError(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message)
	if err != nil {
		return nil, err
	}

	return nil, eris.New(message)
}

func getenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var fallback string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &key, &fallback)
	if err != nil {
		return nil, err
	}

	value, ok := os.LookupEnv(key)
	getCtx(thread).inputs.recordEnv(key, value, ok)
	if !ok {
		value = fallback
	}

	return starlark.String(value), nil
}

// read_yaml(file, key, default) returns the value at the dotted key path or default if it's missing.
func readYaml(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var yamlFile string
	var yamlKey string
	var defaultValue starlark.Value = starlark.None

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &yamlFile, &yamlKey, &defaultValue)
	if err != nil {
		return nil, err
	}

	ctx := getCtx(thread)
	yamlFile = normalizePath(ctx, yamlFile)
	ctx.inputs.recordFile(yamlFile)

	doc, loaded := ctx.yamlCache[yamlFile]
	if !loaded {
		content, err := os.ReadFile(yamlFile)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to open file %s", yamlFile)
		}

		err = yaml.Unmarshal(content, &doc)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to parse file %s", yamlFile)
		}
		ctx.yamlCache[yamlFile] = doc
	}

	value := reflect.ValueOf(doc)
	for _, key := range strings.Split(yamlKey, ".") {
		if value.Kind() == reflect.Interface {
			value = value.Elem()
		}

		switch value.Kind() {
		case reflect.Map:
			value = value.MapIndex(reflect.ValueOf(key))
		case reflect.Slice:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= value.Len() {
				return defaultValue, nil
			}
			value = value.Index(idx)
		case reflect.Invalid:
			return defaultValue, nil
		default:
			return nil, eris.Errorf("can't look up %s in a YAML value of kind %v", key, value.Kind())
		}
	}

	if !value.IsValid() || (value.Kind() == reflect.Interface && value.IsNil()) {
		return defaultValue, nil
	}

	return interfaceToStarlark(value.Interface())
}

func starIsdir(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dirPath string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &dirPath)
	if err != nil {
		return nil, err
	}

	return starlark.Bool(isDir(normalizePath(getCtx(thread), dirPath))), nil
}

func starIsfile(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var filePath string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &filePath)
	if err != nil {
		return nil, err
	}

	return starlark.Bool(isFile(normalizePath(getCtx(thread), filePath))), nil
}
