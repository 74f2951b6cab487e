package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// RunFile describes a selection run. Command line flags override its values.
type RunFile struct {
	Data        string   `yaml:"data"`
	Sheet       string   `yaml:"sheet"`
	Features    []string `yaml:"features"`
	Targets     []string `yaml:"targets"`
	Categorical []string `yaml:"categorical"`
	OneHot      []string `yaml:"one-hot"`
	K           int      `yaml:"k"`
	Strategy    string   `yaml:"strategy"`
	Method      string   `yaml:"method"`
	Bins        int      `yaml:"bins"`
	Precision   *int     `yaml:"precision"`

	SQL struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		Query  string `yaml:"query"`
	} `yaml:"sql"`
}

var methods = map[string]bool{"": true, "forward": true, "backward": true, "exhaustive": true}

// ReadRunFile parses a YAML run file.
func ReadRunFile(md []byte) (*RunFile, error) {
	rf := &RunFile{}
	if err := yaml.UnmarshalStrict(md, rf); err != nil {
		return nil, fmt.Errorf("parsing yml run file: %v", err)
	}
	if !methods[rf.Method] {
		return nil, fmt.Errorf("unknown method %q, expected forward, backward or exhaustive", rf.Method)
	}
	if rf.K < 0 {
		return nil, fmt.Errorf("k must not be negative, got %d", rf.K)
	}
	return rf, nil
}

func ReadRunFileFromFile(filepath string) (*RunFile, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading run file %s: %v", filepath, err)
	}
	rf, err := ReadRunFile(md)
	if err != nil {
		err = fmt.Errorf("parsing run file %s: %v", filepath, err)
	}
	return rf, err
}
