package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "queryadvisor", cmd.Use)
	assert.Contains(t, cmd.Long, "equality, sort, range")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, cmdName := range []string{"analyze", "indexes"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	logFormatFlag := cmd.PersistentFlags().Lookup("log-format")
	require.NotNil(t, logFormatFlag)
	assert.Equal(t, "text", logFormatFlag.DefValue)
}

func TestAnalyzeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	analyzeCmd, _, err := cmd.Find([]string{"analyze"})
	require.NoError(t, err)

	for _, name := range []string{"query", "sort", "collection", "index-file", "driver", "dsn", "catalog-table", "fail-on"} {
		assert.NotNil(t, analyzeCmd.Flags().Lookup(name), name)
	}

	indexesCmd, _, err := cmd.Find([]string{"indexes"})
	require.NoError(t, err)
	assert.Nil(t, indexesCmd.Flags().Lookup("fail-on"))
}

func TestInvalidFormats(t *testing.T) {
	res := execute(t, nil, "analyze", "--format", "xml", "--query", "{}")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))

	res = execute(t, nil, "analyze", "--log-format", "logfmt", "--query", "{}")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `invalid log format "logfmt"`)
}
