package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValueTypedContainers(t *testing.T) {
	got, err := normalizeValue(map[int]string{1: "one", 2: "two"}, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"1": "one", "2": "two"}, got)

	got, err = normalizeValue([]map[string]int{{"a": 1}}, 0)
	require.NoError(t, err)
	arr, ok := got.([]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"a": 1}, arr[0])
}

func TestNormalizeValuePointer(t *testing.T) {
	n := 7
	got, err := normalizeValue(&n, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	var p *int
	got, err = normalizeValue(p, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNormalizeValueDepthLimit(t *testing.T) {
	v := interface{}("leaf")
	for i := 0; i < maxNormalizeDepth+10; i++ {
		v = []interface{}{v}
	}
	_, err := normalizeValue(v, 0)
	assert.Error(t, err)
}

func TestIsNilValue(t *testing.T) {
	assert.True(t, isNilValue(nil))

	var p *int
	assert.True(t, isNilValue(p))

	var m map[string]int
	assert.True(t, isNilValue(m))

	var s []string
	assert.True(t, isNilValue(s))

	assert.False(t, isNilValue(0))
	assert.False(t, isNilValue(""))
	assert.False(t, isNilValue(map[string]int{}))
}
