package qname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	qn, err := Parse("org.apache.torque.name")
	require.NoError(t, err)
	assert.Equal(t, "name", qn.Name())
	assert.Equal(t, NewNamespace("org.apache.torque"), qn.Namespace())
	assert.Equal(t, "org.apache.torque.name", qn.String())
}

func TestParseIn_DefaultNamespace(t *testing.T) {
	qn, err := ParseIn("name", NewNamespace("org.apache"))
	require.NoError(t, err)
	assert.Equal(t, "org.apache.name", qn.String())

	qn, err = ParseIn("other.name", NewNamespace("org.apache"))
	require.NoError(t, err)
	assert.Equal(t, "other.name", qn.String())
}

func TestParse_EmptyNamespaceSegment(t *testing.T) {
	qn, err := Parse(".name")
	require.NoError(t, err)
	assert.True(t, qn.Namespace().IsRoot())
	assert.Equal(t, "name", qn.String())
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", "org.", "org.apache. "} {
		_, err := Parse(in)
		require.ErrorIs(t, err, ErrInvalidName, in)
	}

	_, err := New("a.b", RootNamespace)
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestQualifiedName_RoundTrip(t *testing.T) {
	for _, s := range []string{"org.apache.torque.x", "a.b", "x"} {
		qn := MustParse(s)
		again, err := Parse(qn.String())
		require.NoError(t, err)
		assert.Equal(t, qn, again)
	}

	rootName, err := New("x", RootNamespace)
	require.NoError(t, err)
	assert.Equal(t, "x", rootName.String())

	again, err := ParseIn(rootName.String(), RootNamespace)
	require.NoError(t, err)
	assert.Equal(t, rootName, again)
}

func TestQualifiedName_Visibility(t *testing.T) {
	qn := MustParse("org.apache.x")
	assert.True(t, qn.IsVisibleFrom(NewNamespace("org.apache.torque")))
	assert.True(t, qn.IsVisibleFrom(NewNamespace("org.apache")))
	assert.False(t, qn.IsVisibleFrom(NewNamespace("org")))
	assert.Equal(t, "org.y", MustParse("org.apache.y").WithNamespace(NewNamespace("org")).String())
}
