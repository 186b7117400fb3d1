package targetrules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEngine(t *testing.T) {
	t.Parallel()

	desc := GridTacticsRules().Create(TargetInfo{})

	require.NoError(t, CheckEngine("GridTactics", desc, "5.5.0"))
	require.NoError(t, CheckEngine("GridTactics", desc, "5.5.1"))
	require.NoError(t, CheckEngine("GridTactics", desc, "5.6"))
	require.NoError(t, CheckEngine("GridTactics", desc, "5.5.0-preview"))

	err := CheckEngine("GridTactics", desc, "5.4.4")
	var incompatible IncompatibleEngine
	require.ErrorAs(t, err, &incompatible)
	require.Equal(t, Unreal5_5, incompatible.IncludeOrder)
	require.Contains(t, err.Error(), "5.5.0")

	require.Error(t, CheckEngine("GridTactics", desc, "not-a-version"))

	older := NewTargetDescriptor(Game, V4, Unreal5_2, "GridTactics")
	require.NoError(t, CheckEngine("GridTactics", older, "5.4.4"))
}
