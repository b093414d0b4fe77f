package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StringIncludesKindAndReason(t *testing.T) {
	err := newErr(KindConfiguration, "width %d invalid", 3)
	assert.Equal(t, "configuration: width 3 invalid", err.Error())
}

func TestKind_StringNames(t *testing.T) {
	cases := map[Kind]string{
		KindConfiguration: "configuration",
		KindIO:            "io",
		KindResource:      "resource",
		KindSimulation:    "simulation",
		KindAcceptance:    "acceptance",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestError_Fatal_ByKind(t *testing.T) {
	assert.True(t, newErr(KindConfiguration, "x").Fatal())
	assert.True(t, newErr(KindIO, "x").Fatal())
	assert.True(t, newErr(KindResource, "x").Fatal())
	assert.False(t, newErr(KindSimulation, "x").Fatal())
	assert.False(t, newErr(KindAcceptance, "x").Fatal())
}

func TestError_ExitCode_ByKind(t *testing.T) {
	assert.Equal(t, 1, newErr(KindConfiguration, "x").ExitCode())
	assert.Equal(t, 1, newErr(KindIO, "x").ExitCode())
	assert.Equal(t, 2, newErr(KindResource, "x").ExitCode())
	assert.Equal(t, 1, newErr(KindSimulation, "x").ExitCode())
}
