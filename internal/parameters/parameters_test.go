package parameters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("mcts, c=1.5,max_time=2s,expr=a=b,,")
	assert.Equal(t, Params{"mcts": "", "c": "1.5", "max_time": "2s", "expr": "a=b"}, params)
	assert.Empty(t, NewFromConfigString(""))
}

func TestGetParamOr(t *testing.T) {
	params := NewFromConfigString("heuristic,verbose=false,n=7,c=1.5,max_time=250ms,name=x,bad_int=x")

	b, err := GetParamOr(params, "heuristic", false)
	require.NoError(t, err)
	assert.True(t, b)
	b, err = GetParamOr(params, "verbose", true)
	require.NoError(t, err)
	assert.False(t, b)

	n, err := GetParamOr(params, "n", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	n, err = GetParamOr(params, "missing", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = GetParamOr(params, "bad_int", 0)
	require.Error(t, err)

	c, err := GetParamOr(params, "c", 0.0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, c)
	c32, err := GetParamOr(params, "c", float32(0))
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), c32)

	d, err := GetParamOr(params, "max_time", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
	_, err = GetParamOr(params, "name", time.Second)
	require.Error(t, err)

	s, err := GetParamOr(params, "name", "")
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("a=1,b=2,c")
	a, err := PopParamOr(params, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.False(t, params.Has("a"))
	assert.True(t, params.Has("b"))

	err = CheckAllConsumed(params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b", "c"`)

	_, _ = PopParamOr(params, "b", 0)
	_, _ = PopParamOr(params, "c", false)
	require.NoError(t, CheckAllConsumed(params))
}
