package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexesGolden(t *testing.T) {
	res := execute(t, nil, "indexes", "--query", diagnosticsQuery, "--sort", `{"created": -1}`,
		"--collection", "orders", "--index-file", indexFile)
	require.NoError(t, res.err)
	assertGolden(t, "indexes_orders", res.stdout)
}

func TestIndexesIdeal(t *testing.T) {
	res := execute(t, nil, "indexes", "testdata/query.json", "--sort", `{"B": 1}`,
		"--collection", "events", "--index-file", indexFile)
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "diff:")
	assert.Contains(t, res.stdout, "Recommendation: none, index B_1_A_1 is already ideal")
}

func TestIndexesJSON(t *testing.T) {
	res := execute(t, nil, "indexes", "--format", "json", "--query", diagnosticsQuery,
		"--sort", `{"created": -1}`, "--collection", "orders", "--index-file", indexFile)
	require.NoError(t, res.err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Diffs []IndexDiff `json:"diffs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []IndexDiff{{
		Index:       "status_1",
		Recommended: "created_-1_status_1",
		Diff:        "{+created_-1_+}status_1",
	}}, resp.Data.Diffs)
}

func TestIndexesCommandError(t *testing.T) {
	res := execute(t, nil, "indexes", "--query", `{"A": {"$foo": 1}}`)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Equal(t, "Error [E003]: unknown operator: $foo\n", res.stdout)
}

func TestDiffNames(t *testing.T) {
	assert.Equal(t, "status_1", diffNames("status_1", "status_1"))
	assert.Equal(t, "status_1{+_created_-1+}", diffNames("status_1", "status_1_created_-1"))
	assert.Equal(t, "a_1[-_b_1-]", diffNames("a_1_b_1", "a_1"))
}
