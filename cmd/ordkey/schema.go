package main

import (
	"fmt"
	"os"

	"github.com/bsm/ordkey"
	"gopkg.in/yaml.v3"
)

type schemaConfig struct {
	Columns []columnConfig `yaml:"columns"`
}

type columnConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`     // int8|int16|int32|int64|float32|float64|bytes|string
	Order    string `yaml:"order"`    // asc|desc, default asc
	Nullable bool   `yaml:"nullable"` // default false
}

func loadSchema(path string) (*ordkey.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSchema(data)
}

func parseSchema(data []byte) (*ordkey.Schema, error) {
	var cfg schemaConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ordkey: invalid schema file: %w", err)
	}

	cols := make([]ordkey.Column, 0, len(cfg.Columns))
	for i, cc := range cfg.Columns {
		typ, err := ordkey.ParseType(cc.Type)
		if err != nil {
			return nil, fmt.Errorf("ordkey: column %d (%s): %w", i, cc.Name, err)
		}
		dir, err := ordkey.ParseDirection(cc.Order)
		if err != nil {
			return nil, fmt.Errorf("ordkey: column %d (%s): %w", i, cc.Name, err)
		}

		cols = append(cols, ordkey.Column{
			Name:      cc.Name,
			Type:      typ,
			Direction: dir,
			Nullable:  cc.Nullable,
		})
	}
	return ordkey.NewSchema(cols...)
}

// parseTuple parses one literal per column. See ordkey.ParseValue for the
// accepted formats.
func parseTuple(s *ordkey.Schema, fields []string) (ordkey.Tuple, error) {
	if len(fields) > s.NumColumns() {
		return nil, fmt.Errorf("ordkey: got %d values, schema has %d columns", len(fields), s.NumColumns())
	}

	t := make(ordkey.Tuple, 0, len(fields))
	for i, f := range fields {
		v, err := ordkey.ParseValue(s.Column(i).Type, f)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		t = append(t, v)
	}
	return t, nil
}
