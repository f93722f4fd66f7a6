package statsd

import (
	"testing"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"

	"pkg.world.dev/world-engine/ecs/assert"
)

func TestMetricTagToTraceTag(t *testing.T) {
	testCases := []struct {
		tag       string
		wantKey   string
		wantValue any
	}{
		{
			tag:       "foo:bar",
			wantKey:   "foo",
			wantValue: "bar",
		},
		{
			tag:       "no_value",
			wantKey:   "no_value",
			wantValue: nil,
		},
		{
			tag:       "many:colons:in:this:tag",
			wantKey:   "many",
			wantValue: "colons:in:this:tag",
		},
		{
			tag:       "no_tag_value:",
			wantKey:   "no_tag_value",
			wantValue: nil,
		},
		{
			tag:       ":no_tag_key",
			wantKey:   "no_tag_key",
			wantValue: nil,
		},
	}

	for _, tc := range testCases {
		gotKey, gotValue := tagToTraceTag(tc.tag)
		assert.Equal(t, tc.wantKey, gotKey)
		assert.Equal(t, tc.wantValue, gotValue)
	}
}

func TestInitRejectsEmptyAddress(t *testing.T) {
	err := Init("", nil)
	assert.ErrorContains(t, err, "address must not be empty")
}

func TestEmitWithNoOpClient(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitTickStat(time.Now(), "all_systems")
		EmitEntityCount(3)
	})
}

func TestInitAndReset(t *testing.T) {
	// UDP clients do not need a listener to be created.
	assert.NilError(t, Init("127.0.0.1:8125", []string{"env:test", "solo"}))
	assert.DeepEqual(t, map[string]any{"env": "test", "solo": nil}, TraceTags())
	EmitEntityCount(1)

	assert.NilError(t, Reset())
	_, isNoOp := Client().(*ddstatsd.NoOpClient)
	assert.True(t, isNoOp)
	assert.Empty(t, TraceTags())
}
