package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/internal/appcontext"
)

func TestVersionPlain(t *testing.T) {
	app := &appcontext.Mock{
		VersionFunc:      func() string { return "1.2.3" },
		OutputFormatFunc: func() string { return "" },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "sponsormap 1.2.3\n", out.String())
}

func TestVersionJSON(t *testing.T) {
	app := &appcontext.Mock{
		VersionFunc:      func() string { return "1.2.3" },
		CommitFunc:       func() string { return "abc123" },
		OutputFormatFunc: func() string { return "json" },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var info Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.NotEmpty(t, info.Platform)
}
