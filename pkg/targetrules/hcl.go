package targetrules

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rotisserie/eris"
	"github.com/zclconf/go-cty/cty"
)

// hclTarget is a target block in a *.target.hcl file:
//
//	target "GridTactics" {
//	  type           = "Game"
//	  build_settings = build_settings.latest
//	  include_order  = "Unreal5_5"
//	  extra_modules  = ["GridTactics"]
//	}
type hclTarget struct {
	Name          string   `hcl:"name,label"`
	Type          *string  `hcl:"type,optional"`
	BuildSettings *string  `hcl:"build_settings,optional"`
	IncludeOrder  *string  `hcl:"include_order,optional"`
	ExtraModules  []string `hcl:"extra_modules,optional"`
}

type hclRoot struct {
	Targets []*hclTarget `hcl:"target,block"`
	Remain  hcl.Body     `hcl:",remain"`
}

// hclEvalContext exposes the version aliases to HCL expressions.
func hclEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"build_settings": cty.ObjectVal(map[string]cty.Value{
				"latest": cty.StringVal(BuildSettingsLatest.String()),
			}),
			"include_order": cty.ObjectVal(map[string]cty.Value{
				"latest": cty.StringVal(IncludeOrderLatest.String()),
				"oldest": cty.StringVal(IncludeOrderOldest.String()),
			}),
		},
	}
}

// LoadHCL parses a *.target.hcl rules file.
func LoadHCL(ctx context.Context, filename, projectRoot string) (RuleSet, error) {
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	filename, err = filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	shortName := simplifyPath(projectRoot, filename)

	log(ctx).Debug().Str("path", filename).Msgf("Loading %s", shortName)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, eris.Wrapf(diags, "failed to parse %s", shortName)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(file.Body, hclEvalContext(), &root)
	if diags.HasErrors() {
		return nil, eris.Wrapf(diags, "failed to decode %s", shortName)
	}

	if root.Remain != nil {
		// everything besides target blocks is reported as unsupported
		_, diags := root.Remain.Content(&hcl.BodySchema{})
		for _, diag := range diags {
			log(ctx).Warn().Str("path", filename).Msgf("%s: ignoring unknown content: %s", shortName, diag.Error())
		}
	}

	result := RuleSet{}
	for _, block := range root.Targets {
		rules, err := block.toRules(shortName)
		if err != nil {
			return nil, eris.Wrapf(err, "%s", shortName)
		}

		if _, present := result[rules.Name]; present {
			return nil, eris.Wrapf(ErrDuplicateTarget, "%s: %s", shortName, rules.Name)
		}
		result[rules.Name] = rules
	}

	if len(result) == 0 {
		log(ctx).Warn().Str("path", filename).Msgf("%s doesn't declare any targets", shortName)
	}

	return result, nil
}

func (t *hclTarget) toRules(source string) (*TargetRules, error) {
	if t.Name == "" {
		return nil, eris.New("target blocks need a non-empty name label")
	}

	rules := &TargetRules{
		Name:          t.Name,
		TargetType:    Game,
		BuildSettings: BuildSettingsLatest,
		IncludeOrder:  IncludeOrderLatest,
		ExtraModules:  make([]string, 0, len(t.ExtraModules)),
		Source:        source,
	}

	var err error
	if t.Type != nil {
		rules.TargetType, err = ParseTargetType(*t.Type)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid type for %s", t.Name)
		}
	}

	if t.BuildSettings != nil {
		rules.BuildSettings, err = ParseBuildSettingsVersion(*t.BuildSettings)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid build_settings for %s", t.Name)
		}
	}

	if t.IncludeOrder != nil {
		rules.IncludeOrder, err = ParseIncludeOrderVersion(*t.IncludeOrder)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid include_order for %s", t.Name)
		}
	}

	for idx, module := range t.ExtraModules {
		if module == "" {
			return nil, eris.Errorf("extra_modules[%d] of %s is empty", idx, t.Name)
		}
		rules.ExtraModules = append(rules.ExtraModules, module)
	}

	return rules, nil
}
