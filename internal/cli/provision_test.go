package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wlt "github.com/microsoft/WorldLockingTools-Unreal"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/target"
)

func TestWriteReport(t *testing.T) {
	desc := target.Descriptor{Platform: target.Win64, Architecture: target.X64, Type: target.Game}
	rules := target.NewModuleRules("WorldLockingTools", desc)
	rules.AddDefinition("USING_FROZEN_WORLD")
	r := report{
		Rules:  rules,
		Result: &wlt.Result{Outcome: wlt.Found, Package: "Engine 1.1.1", CopyStatus: "copied"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, "yaml", r))
	assert.Contains(t, buf.String(), "outcome: found")
	assert.Contains(t, buf.String(), "copy: copied")
	assert.Contains(t, buf.String(), "USING_FROZEN_WORLD")

	buf.Reset()
	require.NoError(t, writeReport(&buf, "json", r))
	assert.Contains(t, buf.String(), `"outcome": "found"`)
	assert.Contains(t, buf.String(), `"package": "Engine 1.1.1"`)

	assert.ErrorContains(t, writeReport(&buf, "xml", r), "unknown format")
}
