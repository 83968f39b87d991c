package clipdef

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"

	"github.com/dzonerzy/go-clip/clip"
)

const deployTOML = `
name = "deploy"
description = "Deploy a release"

[[options]]
names = ["e", "env"]
usage = "single"
enum = ["dev", "prod"]
default = "dev"

[[options]]
names = ["v", "verbose"]
usage = "count"

[[options]]
names = ["tag"]
usage = "list"
validators = [{ kind = "regex", pattern = "^[a-z]+$" }]

[[arguments]]
name = "version"
type = "semver"

[[commands]]
name = "rollback"
aliases = ["rb"]
description = "Undo the last deploy"

  [[commands.options]]
  names = ["steps"]
  usage = "single"
  type = "int"
  required = true
  validators = [{ kind = "range", min = 1, max = 10 }]
`

const deployYAML = `
name: deploy
description: Deploy a release
options:
  - names: [e, env]
    usage: single
    enum: [dev, prod]
    default: "dev"
  - names: [v, verbose]
    usage: count
  - names: [tag]
    usage: list
    validators:
      - kind: regex
        pattern: "^[a-z]+$"
arguments:
  - name: version
    type: semver
commands:
  - name: rollback
    aliases: [rb]
    description: Undo the last deploy
    options:
      - names: [steps]
        usage: single
        type: int
        required: true
        validators:
          - kind: range
            min: 1
            max: 10
`

func TestLoad_Formats(t *testing.T) {
	loaders := map[string]func([]byte) (*clip.Command, error){
		"toml": func(b []byte) (*clip.Command, error) { return LoadTOML(b) },
		"yaml": func(b []byte) (*clip.Command, error) { return LoadYAML(b) },
	}
	sources := map[string]string{"toml": deployTOML, "yaml": deployYAML}

	for name, load := range loaders {
		t.Run(name, func(t *testing.T) {
			root, err := load([]byte(sources[name]))
			require.NoError(t, err)
			require.Equal(t, "deploy", root.Name())

			res, err := clip.Parse(root, []string{"-vv", "--tag", "a", "b", "--", "1.2.3"})
			require.NoError(t, err)

			env, ok := res.String("env")
			require.True(t, ok)
			require.Equal(t, "dev", env)
			require.Equal(t, clip.SourceDefault, res.Source("env"))
			require.Equal(t, 2, res.Count("verbose"))

			tags, ok := res.Strings("tag")
			require.True(t, ok)
			require.Equal(t, []string{"a", "b"}, tags)

			v, ok := clip.Get[*semver.Version](res, "version")
			require.True(t, ok)
			require.Equal(t, "1.2.3", v.String())

			_, err = clip.Parse(root, []string{"--tag", "A1", "1.0.0"})
			require.ErrorIs(t, err, clip.ErrValidationFailed)

			res, err = clip.Parse(root, []string{"rb", "--steps", "3"})
			require.NoError(t, err)
			require.Equal(t, []string{"deploy", "rollback"}, res.Path())
			steps, _ := res.Int("steps")
			require.Equal(t, 3, steps)

			_, err = clip.Parse(root, []string{"rollback", "--steps", "11"})
			require.ErrorIs(t, err, clip.ErrValidationFailed)

			_, err = clip.Parse(root, []string{"rollback"})
			require.ErrorIs(t, err, clip.ErrRequiredOptionAbsent)
		})
	}
}

func TestLoad_StructuralErrorsSurface(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "duplicate option name",
			src: `
name = "x"
[[options]]
names = ["a"]
[[options]]
names = ["a"]
`,
			want: clip.ErrDuplicateName,
		},
		{
			name: "required after optional",
			src: `
name = "x"
[[arguments]]
name = "first"
optional = true
[[arguments]]
name = "second"
`,
			want: clip.ErrRequiredAfterOptional,
		},
		{
			name: "validator on flag",
			src: `
name = "x"
[[options]]
names = ["quiet"]
validators = [{ kind = "not_empty" }]
`,
			want: clip.ErrValidatorNotAllowed,
		},
		{
			name: "invalid name",
			src: `
name = "x"
[[options]]
names = ["bad name"]
`,
			want: clip.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTOML([]byte(tt.src))
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoad_DefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown type", "name = \"x\"\n[[options]]\nnames = [\"n\"]\nusage = \"single\"\ntype = \"complex\"\n", "unknown type"},
		{"unknown usage", "name = \"x\"\n[[options]]\nnames = [\"n\"]\nusage = \"many\"\n", "unknown usage"},
		{"bad regex", "name = \"x\"\n[[options]]\nnames = [\"n\"]\nusage = \"single\"\nvalidators = [{ kind = \"regex\", pattern = \"(\" }]\n", "regex validator"},
		{"unknown key", "name = \"x\"\ncolour = \"red\"\n", "unknown TOML grammar key"},
		{"bad default", "name = \"x\"\n[[options]]\nnames = [\"n\"]\nusage = \"single\"\ntype = \"int\"\ndefault = \"ten\"\n", "default"},
		{"bad bounds", "name = \"x\"\n[[options]]\nnames = [\"n\"]\noccurrences = [1]\n", "[min, max]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTOML([]byte(tt.src))
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestLoad_OccurrenceAndListDefaults(t *testing.T) {
	root, err := LoadYAML([]byte(`
name: tool
options:
  - names: [port]
    usage: list
    type: int
    parameters: [1, -1]
    occurrences: [0, 2]
    default: "80, 443"
    env: [TOOL_PORTS]
arguments:
  - name: files
    repeat: -1
    optional: true
`))
	require.NoError(t, err)

	opt := root.FindOption("port")
	require.NotNil(t, opt)
	require.Equal(t, 2, opt.Usage().MaxOccurrences)
	require.Equal(t, clip.Unbounded, opt.Usage().MaxParameters)
	require.Equal(t, "80, 443", opt.DefaultText)

	res, err := clip.Parse(root, nil)
	require.NoError(t, err)
	ports, ok := clip.GetList[int](res, "port")
	require.True(t, ok)
	require.Equal(t, []int{80, 443}, ports)

	t.Setenv("TOOL_PORTS", "1,2,3")
	res, err = clip.Parse(root, []string{"a", "b"})
	require.NoError(t, err)
	ports, _ = clip.GetList[int](res, "port")
	require.Equal(t, []int{1, 2, 3}, ports)
	require.Equal(t, clip.SourceEnv, res.Source("port"))

	files, ok := clip.GetList[string](res, "files")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, files)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "grammar.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(deployTOML), 0o600))
	root, err := LoadFile(tomlPath)
	require.NoError(t, err)
	require.Equal(t, "deploy", root.Name())

	yamlPath := filepath.Join(dir, "grammar.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(deployYAML), 0o600))
	root, err = LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, root.Commands(), 1)

	_, err = LoadFile(filepath.Join(dir, "grammar.json"))
	require.Error(t, err)

	jsonPath := filepath.Join(dir, "grammar.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o600))
	_, err = LoadFile(jsonPath)
	require.ErrorContains(t, err, "unsupported grammar file format")
}
