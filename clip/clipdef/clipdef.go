// Package clipdef builds clip command trees from declarative TOML or YAML
// grammar files.
//
// A file describes the root command; options, arguments and sub-commands
// nest under it:
//
//	name = "deploy"
//	description = "Deploy a release"
//
//	[[options]]
//	names = ["e", "env"]
//	usage = "single"
//	enum = ["dev", "prod"]
//	default = "dev"
//
//	[[arguments]]
//	name = "version"
//	type = "semver"
//
// Definitions go through the same builder calls as hand-written code, so
// every structural rule is enforced and reported as a *clip.ParseError.
package clipdef

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-clip/clip"
)

// CommandDef describes a command.
type CommandDef struct {
	Name            string        `toml:"name" yaml:"name"`
	Aliases         []string      `toml:"aliases" yaml:"aliases"`
	Description     string        `toml:"description" yaml:"description"`
	Help            string        `toml:"help" yaml:"help"`
	Hidden          bool          `toml:"hidden" yaml:"hidden"`
	CaseInsensitive bool          `toml:"case_insensitive" yaml:"case_insensitive"`
	Options         []OptionDef   `toml:"options" yaml:"options"`
	Arguments       []ArgumentDef `toml:"arguments" yaml:"arguments"`
	Commands        []CommandDef  `toml:"commands" yaml:"commands"`
}

// OptionDef describes an option. Usage is one of "flag" (the default),
// "single", "list" or "count"; Occurrences and Parameters override its
// bounds as [min, max] pairs where a negative max means unbounded.
type OptionDef struct {
	Names           []string       `toml:"names" yaml:"names"`
	Description     string         `toml:"description" yaml:"description"`
	Placeholder     string         `toml:"placeholder" yaml:"placeholder"`
	Hidden          bool           `toml:"hidden" yaml:"hidden"`
	CaseInsensitive bool           `toml:"case_insensitive" yaml:"case_insensitive"`
	Usage           string         `toml:"usage" yaml:"usage"`
	Required        bool           `toml:"required" yaml:"required"`
	Occurrences     []int          `toml:"occurrences" yaml:"occurrences"`
	Parameters      []int          `toml:"parameters" yaml:"parameters"`
	Individual      bool           `toml:"individual" yaml:"individual"`
	Type            string         `toml:"type" yaml:"type"`
	Enum            []string       `toml:"enum" yaml:"enum"`
	Default         *string        `toml:"default" yaml:"default"`
	Env             []string       `toml:"env" yaml:"env"`
	Validators      []ValidatorDef `toml:"validators" yaml:"validators"`
}

// ArgumentDef describes a positional argument. Repeat above 1 lets the last
// argument capture up to that many tokens; a negative value is unbounded.
type ArgumentDef struct {
	Name        string         `toml:"name" yaml:"name"`
	Description string         `toml:"description" yaml:"description"`
	Optional    bool           `toml:"optional" yaml:"optional"`
	Repeat      int            `toml:"repeat" yaml:"repeat"`
	Type        string         `toml:"type" yaml:"type"`
	Enum        []string       `toml:"enum" yaml:"enum"`
	Default     *string        `toml:"default" yaml:"default"`
	Env         []string       `toml:"env" yaml:"env"`
	Validators  []ValidatorDef `toml:"validators" yaml:"validators"`
}

// ValidatorDef describes a built-in validator. Kind is one of "regex",
// "one_of", "range", "min_length", "max_length", "not_empty",
// "file_exists" or "dir_exists". Index targets one parameter of an
// individual option; it defaults to every parameter.
type ValidatorDef struct {
	Kind    string   `toml:"kind" yaml:"kind"`
	Pattern string   `toml:"pattern" yaml:"pattern"`
	Values  []string `toml:"values" yaml:"values"`
	Min     *float64 `toml:"min" yaml:"min"`
	Max     *float64 `toml:"max" yaml:"max"`
	Length  int      `toml:"length" yaml:"length"`
	Index   *int     `toml:"index" yaml:"index"`
}

// LoadTOML decodes a TOML grammar and builds its command tree.
func LoadTOML(data []byte) (*clip.Command, error) {
	var def CommandDef
	md, err := toml.Decode(string(data), &def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML grammar: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown TOML grammar key %q", undecoded[0].String())
	}
	return Build(def)
}

// LoadYAML decodes a YAML grammar and builds its command tree.
func LoadYAML(data []byte) (*clip.Command, error) {
	var def CommandDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML grammar: %w", err)
	}
	return Build(def)
}

// LoadFile loads a grammar file, choosing the format by extension.
func LoadFile(path string) (*clip.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return nil, fmt.Errorf("unsupported grammar file format: %s", filepath.Ext(path))
	}
}

// Build creates the command tree described by def.
func Build(def CommandDef) (*clip.Command, error) {
	root := clip.New(def.Name, def.Description)
	root.Alias(def.Aliases...)
	if err := populate(root, def); err != nil {
		return nil, err
	}
	if err := root.Err(); err != nil {
		return nil, err
	}
	return root, nil
}

func populate(cmd *clip.Command, def CommandDef) error {
	cmd.HelpText(def.Help)
	if def.Hidden {
		cmd.Hidden()
	}
	if def.CaseInsensitive {
		cmd.CaseSensitive(false)
	}

	for _, od := range def.Options {
		if err := addOption(cmd, od); err != nil {
			return fmt.Errorf("command %q: %w", def.Name, err)
		}
	}
	for _, ad := range def.Arguments {
		if err := addArgument(cmd, ad); err != nil {
			return fmt.Errorf("command %q: %w", def.Name, err)
		}
	}
	for _, cd := range def.Commands {
		child := cmd.Command(cd.Name, cd.Description, cd.Aliases...)
		if err := populate(child, cd); err != nil {
			return err
		}
	}
	return nil
}

func addOption(cmd *clip.Command, def OptionDef) error {
	b := cmd.Option(def.Names...).
		Describe(def.Description).
		Placeholder(def.Placeholder).
		FromEnv(def.Env...)

	usage, err := usageFor(def)
	if err != nil {
		return fmt.Errorf("option %v: %w", def.Names, err)
	}
	b.Usage(usage)
	if def.Hidden {
		b.Hidden()
	}
	if def.CaseInsensitive {
		b.CaseSensitive(false)
	}

	conv, err := converterFor(def.Type, def.Enum)
	if err != nil {
		return fmt.Errorf("option %v: %w", def.Names, err)
	}
	if conv != nil {
		b.Convert(conv)
	}

	for _, vd := range def.Validators {
		v, err := validatorFor(vd)
		if err != nil {
			return fmt.Errorf("option %v: %w", def.Names, err)
		}
		if vd.Index != nil {
			b.ValidateAt(*vd.Index, v)
		} else {
			b.Validate(v)
		}
	}

	if def.Default != nil {
		o := b.Option()
		value, err := defaultValue(*def.Default, o.Shape(), optionConverter(o))
		if err != nil {
			return fmt.Errorf("option %v: default: %w", def.Names, err)
		}
		b.Default(value)
		o.DefaultText = *def.Default
	}
	return nil
}

func addArgument(cmd *clip.Command, def ArgumentDef) error {
	b := cmd.Argument(def.Name).
		Describe(def.Description).
		FromEnv(def.Env...)

	if def.Optional {
		b.Optional()
	}
	switch {
	case def.Repeat < 0:
		b.Repeat(clip.Unbounded)
	case def.Repeat > 1:
		b.Repeat(def.Repeat)
	}

	conv, err := converterFor(def.Type, def.Enum)
	if err != nil {
		return fmt.Errorf("argument %q: %w", def.Name, err)
	}
	if conv != nil {
		b.Convert(conv)
	}

	for _, vd := range def.Validators {
		if vd.Index != nil {
			return fmt.Errorf("argument %q: validator index is only valid on options", def.Name)
		}
		v, err := validatorFor(vd)
		if err != nil {
			return fmt.Errorf("argument %q: %w", def.Name, err)
		}
		b.Validate(v)
	}

	if def.Default != nil {
		a := b.Argument()
		shape := clip.ShapeObject
		if a.Repeats() {
			shape = clip.ShapeList
		}
		conv := a.Converter
		if conv == nil {
			conv = clip.String
		}
		value, err := defaultValue(*def.Default, shape, conv)
		if err != nil {
			return fmt.Errorf("argument %q: default: %w", def.Name, err)
		}
		b.Default(value)
		a.DefaultText = *def.Default
	}
	return nil
}

func usageFor(def OptionDef) (clip.Usage, error) {
	var u clip.Usage
	switch strings.ToLower(def.Usage) {
	case "", "flag":
		u = clip.FlagUsage
	case "single":
		u = clip.SingleUsage
	case "list":
		u = clip.ListUsage
	case "count":
		u = clip.CountUsage(clip.Unbounded)
	default:
		return u, fmt.Errorf("unknown usage %q", def.Usage)
	}

	if def.Occurrences != nil {
		lo, hi, err := bounds("occurrences", def.Occurrences)
		if err != nil {
			return u, err
		}
		u.MinOccurrences, u.MaxOccurrences = lo, hi
	}
	if def.Parameters != nil {
		lo, hi, err := bounds("parameters", def.Parameters)
		if err != nil {
			return u, err
		}
		u.MinParameters, u.MaxParameters = lo, hi
	}
	if def.Required {
		u.MinOccurrences = max(u.MinOccurrences, 1)
	}
	if def.Individual {
		u.ParameterType = clip.Individual
	}
	return u, nil
}

func bounds(field string, pair []int) (int, int, error) {
	if len(pair) != 2 {
		return 0, 0, fmt.Errorf("%s must be a [min, max] pair", field)
	}
	hi := pair[1]
	if hi < 0 {
		hi = clip.Unbounded
	}
	return pair[0], hi, nil
}

func converterFor(typ string, enum []string) (clip.Converter, error) {
	if len(enum) > 0 {
		if typ != "" && typ != "enum" && typ != "string" {
			return nil, fmt.Errorf("enum values cannot be combined with type %q", typ)
		}
		return clip.Enum(enum...), nil
	}
	if typ == "" {
		return nil, nil
	}
	conv, ok := clip.LookupConverter(typ)
	if !ok {
		return nil, fmt.Errorf("unknown type %q (known: %s)", typ, strings.Join(clip.ConverterNames(), ", "))
	}
	return conv, nil
}

func validatorFor(def ValidatorDef) (clip.Validator, error) {
	switch strings.ToLower(def.Kind) {
	case "regex":
		if def.Pattern == "" {
			return nil, fmt.Errorf("regex validator requires a pattern")
		}
		if _, err := regexp.Compile(def.Pattern); err != nil {
			return nil, fmt.Errorf("regex validator: %w", err)
		}
		return clip.Regex(def.Pattern), nil
	case "one_of":
		return clip.OneOf(def.Values...), nil
	case "range":
		if def.Min == nil || def.Max == nil {
			return nil, fmt.Errorf("range validator requires min and max")
		}
		return clip.Range(clip.Float, *def.Min, *def.Max), nil
	case "min_length":
		return clip.MinLength(def.Length), nil
	case "max_length":
		return clip.MaxLength(def.Length), nil
	case "not_empty":
		return clip.NotEmpty, nil
	case "file_exists":
		return clip.FileExists, nil
	case "dir_exists":
		return clip.DirExists, nil
	default:
		return nil, fmt.Errorf("unknown validator kind %q", def.Kind)
	}
}

// optionConverter picks the converter a default goes through: the one
// configured, or the natural one for flags and counts.
func optionConverter(o *clip.Option) clip.Converter {
	if o.Converter != nil {
		return o.Converter
	}
	switch o.Shape() {
	case clip.ShapeFlag:
		return clip.Bool
	case clip.ShapeCount:
		return clip.Int
	default:
		return clip.String
	}
}

// defaultValue converts a raw default. List defaults are comma separated.
func defaultValue(raw string, shape clip.Shape, conv clip.Converter) (any, error) {
	if shape != clip.ShapeList {
		return conv(raw)
	}
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		v, err := conv(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
