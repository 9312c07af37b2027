package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter() (int, Producer) {
	n := 0
	return n, func() (interface{}, error) {
		n++
		return n, nil
	}
}

func TestDefault_ProducesFreshEachCall(t *testing.T) {
	_, producer := counter()
	s := Default(producer)

	v1, err := s.Produce()
	require.NoError(t, err)
	v2, err := s.Produce()
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestSingleton_MemoizesFirstResult(t *testing.T) {
	_, producer := counter()
	s := Singleton(producer)

	v1, err := s.Produce()
	require.NoError(t, err)
	v2, err := s.Produce()
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, v1)
}

func TestPooled_RoundRobinsOnceFull(t *testing.T) {
	_, producer := counter()
	s := Pooled(2)(producer)

	first, err := s.Produce()
	require.NoError(t, err)
	second, err := s.Produce()
	require.NoError(t, err)
	third, err := s.Produce()
	require.NoError(t, err)
	fourth, err := s.Produce()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, first, third)
	assert.Equal(t, second, fourth)
}

func TestRegistry_LooksUpRegisteredFactories(t *testing.T) {
	r := NewRegistry()

	factory, ok := r.Lookup("singleton")
	require.True(t, ok)
	assert.NotNil(t, factory)

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)

	r.Register("pooled2", Pooled(2))
	factory, ok = r.Lookup("pooled2")
	require.True(t, ok)
	assert.NotNil(t, factory)
}
