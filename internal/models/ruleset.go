package models

// RuleSet from yaml
type RuleSet struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Rule cel rule
type Rule struct {
	Name       string `yaml:"name"`
	Expr       string `yaml:"expr"`
	Severity   string `yaml:"severity"` // error, warning, or info; default warning
	FailureMsg string `yaml:"failure_msg"`
}

// RuleResult eval result
type RuleResult struct {
	RuleName   string
	Passed     bool
	Severity   Severity
	FailureMsg string
}
