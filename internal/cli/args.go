// args.go - Shared argument parsing for the docent CLI.
//
// Every command hands its raw tail to the same parser, so flag syntax
// behaves identically whether the user typed "export --format=html" or
// "export --format html".
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits a command's raw arguments into a subcommand, string
// flags, boolean flags, and positionals. Accepted shapes:
//
//	--flag value     value in the next argument
//	--flag=value     value after an equals sign
//	-f value         short flag, same rules
//	--flag           boolean, no value
//
// The first positional doubles as the subcommand:
//
//	p := NewArgParser([]string{"delete", "--doc", "abc123", "--confirm"})
//	p.Subcommand()        // "delete"
//	p.Flag("doc")         // "abc123"
//	p.BoolFlag("confirm") // true
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw into an ArgParser. Parsing never fails; an
// unrecognized shape just lands in positionals.
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        raw,
	}

	for i := 0; i < len(raw); {
		i += p.consume(raw, i)
	}

	if len(p.positional) > 0 {
		p.subcommand = p.positional[0]
	}
	return p
}

// consume parses one argument (possibly taking the following one as a
// flag value) and returns how many arguments it used.
func (p *ArgParser) consume(raw []string, i int) int {
	arg := raw[i]

	if !strings.HasPrefix(arg, "-") {
		p.positional = append(p.positional, arg)
		return 1
	}

	if name, value, ok := strings.Cut(arg, "="); ok {
		name = strings.TrimLeft(name, "-")
		// --json=true and --json=false are boolean, anything else a string
		if value == "true" || value == "false" {
			p.boolFlags[name] = value == "true"
		} else {
			p.flags[name] = value
		}
		return 1
	}

	name := strings.TrimLeft(arg, "-")
	if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
		p.flags[name] = raw[i+1]
		return 2
	}
	p.boolFlags[name] = true
	return 1
}

// Subcommand returns the first positional argument, or "" when there is
// none. "docent docs delete" parses to subcommand "delete".
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns a string flag's value, or "" when absent. Leading dashes
// in name are ignored, so Flag("--doc") and Flag("doc") match alike.
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// FlagOrDefault returns the flag value, or defaultValue when empty.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return defaultValue
}

// FlagInt returns a flag parsed as an integer.
func (p *ArgParser) FlagInt(name string) (int, error) {
	v := p.Flag(name)
	if v == "" {
		return 0, fmt.Errorf("flag %s not found", name)
	}
	return strconv.Atoi(v)
}

// FlagIntOrDefault returns the flag as an integer, or defaultValue when
// the flag is absent or not a number.
func (p *ArgParser) FlagIntOrDefault(name string, defaultValue int) int {
	v, err := p.FlagInt(name)
	if err != nil {
		return defaultValue
	}
	return v
}

// BoolFlag returns a boolean flag's value, false when absent. Leading
// dashes in name are ignored.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}

// HasFlag reports whether name was given at all, as either flag kind.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, s := p.flags[name]
	_, b := p.boolFlags[name]
	return s || b
}

// Positional returns the positional at index (0 is the subcommand), or
// "" when out of range.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positionals from index on. Commands with
// free-text tails ("ask what is the main finding") join these back up.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns how many positional arguments were given.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the arguments as given, before parsing.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// =============================================================================
// VALUE HELPERS
// =============================================================================

// ParseIntWithValidation parses s as a positive integer, naming
// fieldName in any error so the message points at the offending flag.
func ParseIntWithValidation(s string, fieldName string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", fieldName)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", fieldName, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", fieldName, v)
	}
	return v, nil
}

// JoinPositionalArgs joins the positionals from startIndex into one
// string, for multi-word queries and messages.
func JoinPositionalArgs(parser *ArgParser, startIndex int) string {
	return strings.Join(parser.PositionalFrom(startIndex), " ")
}
