package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
taint:
  sources:
    - method:
        class: HttpRequest
        method: "getParameter(String):String"
  sinks:
    - method:
        class: Statement
        method: "execute(String)"
      arg: 0
  transfers:
    - method:
        class: StringBuilder
        method: "append(String):StringBuilder"
      fromArg: 0
      toResult: true
`

func TestLoadRulesParsesSourcesSinksTransfers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o644))

	cfg, err := LoadRules(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "HttpRequest", cfg.Sources[0].Method.Class)

	require.Len(t, cfg.Sinks, 1)
	assert.Equal(t, 0, cfg.Sinks[0].ArgIndex)

	require.Len(t, cfg.Transfers, 1)
	assert.True(t, cfg.Transfers[0].ToResult)
	assert.False(t, cfg.Transfers[0].HasToArg)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
