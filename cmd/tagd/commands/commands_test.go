package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musetronstar/tagd/am"
)

const animals = `
>> animal _is_a _entity;
>> legs _is_a _entity;
>> tail _is_a _entity;
>> bark _is_a _entity;
>> dog _is_a animal
_has legs = 4, tail
_can bark;
`

// setupEnv isolates configuration and points --db at a temp file
func setupEnv(t *testing.T) string {
	t.Helper()
	am.Reset()
	t.Cleanup(am.Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { os.Chdir(wd) })

	old := dbPathFlag
	dbPathFlag = filepath.Join(t.TempDir(), "tagd.db")
	t.Cleanup(func() { dbPathFlag = old })
	return home
}

func run(t *testing.T, cmd *cobra.Command, fn func(*cobra.Command, []string) error, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := fn(cmd, args)
	return out.String(), err
}

func TestExec(t *testing.T) {
	setupEnv(t)

	out, err := run(t, ExecCmd, runExec, animals)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, ExecCmd, runExec, "<< dog;\n?? _what _is_a animal _can bark;\n")
	require.NoError(t, err)
	assert.Equal(t,
		"dog _is_a animal\n_can bark\n_has legs = 4, tail;\n"+
			"dog _is_a animal\n_can bark;\n", out)

	t.Run("failures are reported and returned", func(t *testing.T) {
		out, err := run(t, ExecCmd, runExec, "<< cat;\n<< dog;\n")
		require.Error(t, err)
		assert.Contains(t, out, "TS_NOT_FOUND")
		assert.Contains(t, out, "dog _is_a animal")
	})

	t.Run("file argument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "q.tagl")
		require.NoError(t, os.WriteFile(path, []byte("<< bark;\n"), 0644))
		out, err := run(t, ExecCmd, runExec, "", path)
		require.NoError(t, err)
		assert.Equal(t, "bark _is_a _entity;\n", out)

		_, err = run(t, ExecCmd, runExec, "", filepath.Join(t.TempDir(), "missing.tagl"))
		assert.Error(t, err)
	})
}

func TestShell(t *testing.T) {
	setupEnv(t)
	_, err := run(t, ExecCmd, runExec, animals+`
>> spanish _is_a _entity;
>> perro _refers_to dog _context spanish;
`)
	require.NoError(t, err)

	script := strings.Join([]string{
		".push spanish",
		".context",
		"<< perro",
		";",
		".pop",
		"<< perro;",
		".pop",
		".search tail",
		".bogus",
		`.push "unbalanced`,
		".quit",
		"<< dog;",
	}, "\n")

	out, err := run(t, ShellCmd, runShell, script)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "spanish", lines[0])
	assert.Contains(t, out, "perro _is_a animal", "perro resolves to dog inside spanish")
	assert.Contains(t, out, "TS_NOT_FOUND", "perro is unknown once the context is popped")
	assert.Contains(t, out, "TS_MISUSE", "popping an empty stack")
	assert.Contains(t, out, "TAG_ILLEGAL")
	assert.Equal(t, 1, strings.Count(out, "dog _is_a animal"),
		"only .search prints dog; nothing runs after .quit")
}

func TestDbDumpLoad(t *testing.T) {
	setupEnv(t)
	_, err := run(t, ExecCmd, runExec, animals)
	require.NoError(t, err)

	dump := filepath.Join(t.TempDir(), "animals.yaml")
	_, err = run(t, dbDumpCmd, runDbDump, "", dump)
	require.NoError(t, err)

	data, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: 1.0.0")
	assert.Contains(t, string(data), "id: dog")

	// fresh database
	dbPathFlag = filepath.Join(t.TempDir(), "copy.db")
	out, err := run(t, dbLoadCmd, runDbLoad, "", dump)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded")

	out, err = run(t, ExecCmd, runExec, "<< dog;\n")
	require.NoError(t, err)
	assert.Equal(t, "dog _is_a animal\n_can bark\n_has legs = 4, tail;\n", out)

	out, err = run(t, dbSearchCmd, runDbSearch, "", "legs")
	require.NoError(t, err)
	assert.Contains(t, out, "legs _is_a _entity;")
	assert.Contains(t, out, "dog _is_a animal")
}

func TestDbStats(t *testing.T) {
	setupEnv(t)
	_, err := run(t, ExecCmd, runExec, animals)
	require.NoError(t, err)

	old := statsFormatFlag
	statsFormatFlag = "json"
	t.Cleanup(func() { statsFormatFlag = old })

	out, err := run(t, dbStatsCmd, runDbStats, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"tags": `)
	assert.Contains(t, out, `"relations": 3`)

	statsFormatFlag = "table"
	out, err = run(t, dbStatsCmd, runDbStats, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Relations")

	out, err = run(t, dbTermsCmd, runDbTerms, "")
	require.NoError(t, err)
	assert.Contains(t, out, "legs")
}

func TestAmCommands(t *testing.T) {
	home := setupEnv(t)
	path := filepath.Join(home, "custom.toml")

	old := setFileFlag
	setFileFlag = path
	t.Cleanup(func() { setFileFlag = old })

	out, err := run(t, amSetCmd, runAmSet, "", "engine.no_pos_cast", "true")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, amValidateCmd, runAmValidate, "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, err = run(t, amSetCmd, runAmSet, "", "engine.no_such_key", "1")
	assert.Error(t, err)

	oldFormat := configFormat
	configFormat = "yaml"
	t.Cleanup(func() { configFormat = oldFormat })
	out, err = run(t, amShowCmd, runAmShow, "")
	require.NoError(t, err)
	assert.Contains(t, out, "database:")

	out, err = run(t, amGetCmd, runAmGet, "", "database.path")
	require.NoError(t, err)
	assert.Equal(t, am.DefaultDatabasePath+"\n", out)

	_, err = run(t, amGetCmd, runAmGet, "", "nope.nope")
	assert.Error(t, err)
}
