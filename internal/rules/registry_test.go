package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Plugin)
	ordered = nil
}

func TestRegisterAndLookup(t *testing.T) {
	resetRegistry(t)

	p := &Plugin{ID: "mirror-rule", Name: "Mirror"}
	require.NoError(t, Register(p))

	got, err := Lookup("mirror-rule")
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestRegisterDuplicate(t *testing.T) {
	resetRegistry(t)

	require.NoError(t, Register(&Plugin{ID: "mirror-rule"}))
	err := Register(&Plugin{ID: "mirror-rule"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicatePlugin))
}

func TestRegisterInvalid(t *testing.T) {
	resetRegistry(t)

	assert.True(t, errors.Is(Register(&Plugin{}), ErrInvalidPlugin))
	assert.True(t, errors.Is(Register(nil), ErrNilPlugin))
}

func TestLookupUnknown(t *testing.T) {
	resetRegistry(t)

	_, err := Lookup("no-such-rule")
	assert.True(t, errors.Is(err, ErrUnknownPlugin))
}

func TestRegisteredKeepsOrder(t *testing.T) {
	resetRegistry(t)

	require.NoError(t, Register(&Plugin{ID: "first-rule"}))
	require.NoError(t, Register(&Plugin{ID: "second-rule"}))
	require.NoError(t, Register(&Plugin{ID: "third-rule"}))

	ids := []string{}
	for _, p := range Registered() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"first-rule", "second-rule", "third-rule"}, ids)
}
