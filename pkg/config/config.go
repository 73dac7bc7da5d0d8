// Package config loads and validates the attrclean configuration file.
// YAML, JSON, and HCL are supported; a bare .attrclean file may be either
// YAML or HCL. Provider secrets never live here, see secrets.go.
package config

import (
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/match"
	"github.com/fieldworks/attrclean/pkg/replace"
	"github.com/fieldworks/attrclean/pkg/translate"
)

// Unmatched-policy names accepted in config files.
const (
	UnmatchedKeep  = "keep"
	UnmatchedBlank = "blank"
)

// Config is the complete configuration for a run.
type Config struct {
	// Dataset is the path of the table to process.
	Dataset string `json:"dataset" yaml:"dataset" hcl:"dataset"`
	// Reference is the path of the lookup table for replace runs.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty" hcl:"reference,optional"`

	Cleaning  *CleaningConfig  `json:"cleaning,omitempty" yaml:"cleaning,omitempty" hcl:"cleaning,block"`
	Replace   *ReplaceConfig   `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
	Translate *TranslateConfig `json:"translate,omitempty" yaml:"translate,omitempty" hcl:"translate,block"`
}

// CleaningConfig configures null profiling and column pruning.
type CleaningConfig struct {
	NullValue   string   `json:"null_value,omitempty" yaml:"null_value,omitempty" hcl:"null_value,optional"`
	Fields      []string `json:"fields,omitempty" yaml:"fields,omitempty" hcl:"fields,optional"`
	RemoveEmpty bool     `json:"remove_empty,omitempty" yaml:"remove_empty,omitempty" hcl:"remove_empty,optional"`
	// Threshold drops fields whose null percentage strictly exceeds it.
	// Valid range is [0, 100]; nil disables percentage pruning, so a
	// configured 0 still prunes every field with any nulls.
	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty" hcl:"threshold,optional"`
}

// ReplaceConfig configures a find-and-replace run against the reference
// dataset.
type ReplaceConfig struct {
	SourceField  string `json:"source_field" yaml:"source_field" hcl:"source_field"`
	FindField    string `json:"find_field" yaml:"find_field" hcl:"find_field"`
	ReplaceField string `json:"replace_field" yaml:"replace_field" hcl:"replace_field"`

	PatternMatch      bool   `json:"pattern_match,omitempty" yaml:"pattern_match,omitempty" hcl:"pattern_match,optional"`
	Pattern           string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
	StripLeadingZeros bool   `json:"strip_leading_zeros,omitempty" yaml:"strip_leading_zeros,omitempty" hcl:"strip_leading_zeros,optional"`
	PadNumbers        bool   `json:"pad_numbers,omitempty" yaml:"pad_numbers,omitempty" hcl:"pad_numbers,optional"`

	// Unmatched is "keep" (default) or "blank".
	Unmatched       string `json:"unmatched,omitempty" yaml:"unmatched,omitempty" hcl:"unmatched,optional"`
	CreateNewColumn bool   `json:"create_new_column,omitempty" yaml:"create_new_column,omitempty" hcl:"create_new_column,optional"`
	NewColumnName   string `json:"new_column_name,omitempty" yaml:"new_column_name,omitempty" hcl:"new_column_name,optional"`
}

// TranslateConfig configures a column translation run.
type TranslateConfig struct {
	Service     string `json:"service" yaml:"service" hcl:"service"`
	SourceField string `json:"source_field" yaml:"source_field" hcl:"source_field"`
	TargetField string `json:"target_field" yaml:"target_field" hcl:"target_field"`

	SourceLang string `json:"source_lang,omitempty" yaml:"source_lang,omitempty" hcl:"source_lang,optional"`
	TargetLang string `json:"target_lang" yaml:"target_lang" hcl:"target_lang"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty" hcl:"model,optional"`

	BatchMode  bool `json:"batch_mode,omitempty" yaml:"batch_mode,omitempty" hcl:"batch_mode,optional"`
	BatchSize  int  `json:"batch_size,omitempty" yaml:"batch_size,omitempty" hcl:"batch_size,optional"`
	MaxRetries int  `json:"max_retries,omitempty" yaml:"max_retries,omitempty" hcl:"max_retries,optional"`

	SinglePrompt string `json:"single_prompt,omitempty" yaml:"single_prompt,omitempty" hcl:"single_prompt,optional"`
	BatchPrompt  string `json:"batch_prompt,omitempty" yaml:"batch_prompt,omitempty" hcl:"batch_prompt,optional"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty" hcl:"instructions,optional"`
}

// Validate checks required fields and applies defaults.
func (cfg *Config) Validate() error {
	if cfg.Dataset == "" {
		return errors.Errorf("dataset is required")
	}

	if cfg.Cleaning != nil && cfg.Cleaning.Threshold != nil {
		if t := *cfg.Cleaning.Threshold; t < 0 || t > 100 {
			return errors.Errorf("cleaning.threshold must be within [0, 100], got %v", t)
		}
	}

	if cfg.Replace != nil {
		if cfg.Reference == "" {
			return errors.Errorf("reference is required for replace runs")
		}
		r := cfg.Replace
		if r.SourceField == "" || r.FindField == "" || r.ReplaceField == "" {
			return errors.Errorf("replace.source_field, replace.find_field and replace.replace_field are required")
		}
		switch r.Unmatched {
		case "":
			r.Unmatched = UnmatchedKeep
		case UnmatchedKeep, UnmatchedBlank:
		default:
			return errors.Errorf("replace.unmatched must be %q or %q, got %q", UnmatchedKeep, UnmatchedBlank, r.Unmatched)
		}
		if r.NewColumnName != "" && !r.CreateNewColumn {
			return errors.Errorf("replace.new_column_name requires replace.create_new_column")
		}
	}

	if cfg.Translate != nil {
		tr := cfg.Translate
		if tr.Service == "" {
			return errors.Errorf("translate.service is required")
		}
		if tr.SourceField == "" || tr.TargetField == "" {
			return errors.Errorf("translate.source_field and translate.target_field are required")
		}
		if tr.TargetLang == "" {
			return errors.Errorf("translate.target_lang is required")
		}
		if tr.BatchSize < 0 {
			return errors.Errorf("translate.batch_size must not be negative")
		}
		if tr.BatchSize == 0 {
			tr.BatchSize = 10
		}
		if tr.MaxRetries < 0 {
			return errors.Errorf("translate.max_retries must not be negative")
		}
		if tr.MaxRetries == 0 {
			tr.MaxRetries = 2
		}
	}

	return nil
}

// String returns a one-line description of the configured run.
func (cfg *Config) String() string {
	steps := ""
	if cfg.Cleaning != nil {
		steps += " clean"
	}
	if cfg.Replace != nil {
		steps += " replace"
	}
	if cfg.Translate != nil {
		steps += " translate"
	}
	if steps == "" {
		steps = " (no steps)"
	}
	return fmt.Sprintf("%s:%s", cfg.Dataset, steps)
}

// Options maps the replace section onto replace.Options.
func (r *ReplaceConfig) Options() replace.Options {
	policy := replace.UnmatchedKeep
	if r.Unmatched == UnmatchedBlank {
		policy = replace.UnmatchedBlank
	}
	return replace.Options{
		SourceField:  r.SourceField,
		FindField:    r.FindField,
		ReplaceField: r.ReplaceField,
		Match: match.Options{
			PatternMatch:      r.PatternMatch,
			Pattern:           r.Pattern,
			StripLeadingZeros: r.StripLeadingZeros,
			PadNumbers:        r.PadNumbers,
		},
		Unmatched:       policy,
		CreateNewColumn: r.CreateNewColumn,
		NewColumnName:   r.NewColumnName,
	}
}

// Options maps the translate section onto translate.Options.
func (tr *TranslateConfig) Options() translate.Options {
	return translate.Options{
		SourceLang:   tr.SourceLang,
		TargetLang:   tr.TargetLang,
		Model:        tr.Model,
		SinglePrompt: tr.SinglePrompt,
		BatchPrompt:  tr.BatchPrompt,
		Instructions: tr.Instructions,
		BatchMode:    tr.BatchMode,
		BatchSize:    tr.BatchSize,
		MaxRetries:   tr.MaxRetries,
	}
}
