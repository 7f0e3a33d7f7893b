// Package seed loads demo data described in a YAML fixture.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed testdata/default.yaml
var defaultFixture []byte

// Fixture describes users, a collection tree and everything hanging off it.
// Records refer to each other by key; ids are assigned on insert.
type Fixture struct {
	Users       []UserFixture       `yaml:"users"`
	Collections []CollectionFixture `yaml:"collections"`
	Memberships []MembershipFixture `yaml:"memberships"`
	Links       []LinkFixture       `yaml:"links"`
	Sections    []SectionFixture    `yaml:"sections"`
}

type UserFixture struct {
	Key   string   `yaml:"key"`
	Name  string   `yaml:"name"`
	Order []string `yaml:"order"` // collection keys
}

type CollectionFixture struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Owner  string `yaml:"owner"`
	Parent string `yaml:"parent"`
}

type MembershipFixture struct {
	User       string `yaml:"user"`
	Collection string `yaml:"collection"`
	CanCreate  bool   `yaml:"can_create"`
	CanUpdate  bool   `yaml:"can_update"`
	CanDelete  bool   `yaml:"can_delete"`
}

type LinkFixture struct {
	Collection string `yaml:"collection"`
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Indexed    bool   `yaml:"indexed"`
}

type SectionFixture struct {
	User       string `yaml:"user"`
	Type       string `yaml:"type"`
	Collection string `yaml:"collection"`
	Order      int    `yaml:"order"`
}

// Parse decodes a fixture
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads a fixture from disk
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in demo fixture
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}
