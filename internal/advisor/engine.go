package advisor

import (
	"fmt"
	"os"
	"strings"

	"github.com/apimguard/apimguard/internal/manifest"
	"github.com/apimguard/apimguard/internal/models"
	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"
)

// Engine evaluates custom governance rules (CEL expressions) against
// decoded gateway documents.
type Engine struct {
	env *cel.Env
}

func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("input", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Engine{env: env}, nil
}

// Evaluate checks every rule against one document. A rule that fails to
// compile or evaluate counts as failed with the error as message, so a
// broken rule set cannot silently pass.
func (e *Engine) Evaluate(ruleSet *models.RuleSet, doc *manifest.Document) ([]models.RuleResult, error) {
	input := documentInput(doc)

	results := make([]models.RuleResult, 0, len(ruleSet.Rules))
	for _, rule := range ruleSet.Rules {
		result := e.evaluateRule(rule, input)
		results = append(results, result)
	}
	return results, nil
}

// EvaluatePath runs a rule set over every gateway document under a path
// and converts failed rules into findings.
func (e *Engine) EvaluatePath(ruleSet *models.RuleSet, root string, exts []string) ([]models.Finding, error) {
	files, err := manifest.Files(root, exts)
	if err != nil {
		return nil, err
	}

	var findings []models.Finding
	for _, file := range files {
		docs, err := manifest.LoadFile(file)
		if err != nil {
			continue
		}
		for _, doc := range docs {
			if !doc.IsGatewayResource() {
				continue
			}
			results, err := e.Evaluate(ruleSet, doc)
			if err != nil {
				return nil, err
			}
			for _, r := range results {
				if r.Passed {
					continue
				}
				findings = append(findings, models.Finding{
					Severity: r.Severity,
					Subject:  doc.Name(),
					Message:  fmt.Sprintf("%s: %s", r.RuleName, r.FailureMsg),
					File:     doc.File,
				})
			}
		}
	}
	return findings, nil
}

func (e *Engine) evaluateRule(rule models.Rule, input map[string]any) models.RuleResult {
	severity := ruleSeverity(rule)
	fail := func(msg string) models.RuleResult {
		return models.RuleResult{RuleName: rule.Name, Passed: false, Severity: severity, FailureMsg: msg}
	}

	ast, issues := e.env.Compile(rule.Expr)
	if issues != nil && issues.Err() != nil {
		return fail(fmt.Sprintf("CEL compile error: %v", issues.Err()))
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return fail(fmt.Sprintf("CEL program error: %v", err))
	}

	out, _, err := prg.Eval(map[string]any{"input": input})
	if err != nil {
		return fail(fmt.Sprintf("CEL evaluation error: %v", err))
	}

	passed, ok := out.Value().(bool)
	if !ok {
		return fail(fmt.Sprintf("rule expression must return boolean, got %T", out.Value()))
	}

	result := models.RuleResult{RuleName: rule.Name, Passed: passed, Severity: severity}
	if !passed {
		result.FailureMsg = rule.FailureMsg
	}
	return result
}

// CompileAndValidate checks every rule expression without evaluating.
func (e *Engine) CompileAndValidate(ruleSet *models.RuleSet) error {
	var errs []string
	for _, rule := range ruleSet.Rules {
		_, issues := e.env.Compile(rule.Expr)
		if issues != nil && issues.Err() != nil {
			errs = append(errs, fmt.Sprintf("rule %q: %v", rule.Name, issues.Err()))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("rule set validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// LoadRuleSet reads a rule set from a YAML file.
func LoadRuleSet(path string) (*models.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set: %w", err)
	}
	var rs models.RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set %s: %w", path, err)
	}
	return &rs, nil
}

// documentInput shapes a document for the CEL `input` variable.
func documentInput(doc *manifest.Document) map[string]any {
	metadata, _ := doc.Raw()["metadata"].(map[string]any)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"api_version": doc.APIVersion,
		"kind":        doc.Kind,
		"name":        doc.Name(),
		"metadata":    metadata,
		"spec":        doc.Spec(),
	}
}

func ruleSeverity(rule models.Rule) models.Severity {
	if rule.Severity == "" {
		return models.SeverityWarning
	}
	sev, err := models.ParseSeverity(rule.Severity)
	if err != nil {
		return models.SeverityWarning
	}
	return sev
}
