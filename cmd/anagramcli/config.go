package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"crosswarped.com/anagram"
)

// Config is the solver configuration read from a YAML file. Command-line flags
// override it.
type Config struct {
	MaxResults            int    `yaml:"max_results"`
	MaxPhrases            int    `yaml:"max_phrases"`
	Pruning               string `yaml:"pruning"`
	SubstantialWordLength int    `yaml:"substantial_word_length"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxResults < 0 {
		return fmt.Errorf("max_results must be >= 0")
	}
	if c.MaxPhrases < 0 {
		return fmt.Errorf("max_phrases must be >= 0")
	}
	if c.SubstantialWordLength < 0 {
		return fmt.Errorf("substantial_word_length must be >= 0")
	}
	if _, err := anagram.ParsePruningPolicy(c.Pruning); err != nil {
		return err
	}
	return nil
}

// SolverParams converts a validated Config to solver parameters.
func (c Config) SolverParams() anagram.SolverParams {
	pruning, _ := anagram.ParsePruningPolicy(c.Pruning)
	return anagram.SolverParams{
		MaxResults:            c.MaxResults,
		MaxPhrases:            c.MaxPhrases,
		Pruning:               pruning,
		SubstantialWordLength: c.SubstantialWordLength,
	}
}
