package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/sebdah/goldie/v2"
)

var testID = ulid.MustParse("01J9ZQ4N8V5X2C7W3Y6B0D1E4F")

const (
	diagnosticsQuery = `{"status": {"$ne": "done"}, "tags": {"$size": 2}, "name": {"$regex": "acme", "$options": "i"}}`
	indexFile        = "testdata/indexes.yaml"
)

type execution struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI with a fixed result id and no QUERYADVISOR_* environment.
func execute(t *testing.T, stdin io.Reader, args ...string) execution {
	t.Helper()
	for _, key := range []string{EnvDriver, EnvDSN, EnvCatalogTable, EnvIndexFile} {
		t.Setenv(key, "")
	}

	cmd := newRootCommand(&RootOptions{newID: func() ulid.ULID { return testID }})
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return execution{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func assertGolden(t *testing.T, name string, actual string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}
