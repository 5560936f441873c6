package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchBuild(t *testing.T) {
	name := "  Ada  "
	hid := 2
	patch := Patch{}
	patch.SetString("name", &name)
	patch.SetInt("hid", &hid)

	query, args, err := patch.Build("students", "sid", 7)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE students SET name = $1, hid = $2 WHERE sid = $3", query)
	assert.Equal(t, []interface{}{"Ada", 2, 7}, args)
}

func TestPatchSkipsMissingFields(t *testing.T) {
	blank := "   "
	patch := Patch{}
	patch.SetString("name", nil)
	patch.SetString("mail", &blank)
	patch.SetInt("hid", nil)
	assert.True(t, patch.Empty())

	_, _, err := patch.Build("students", "sid", 1)
	var serr ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeNoFieldsProvided, serr.Code)
	assert.Equal(t, 400, serr.Status)
}

func TestPatchZeroIntIsKept(t *testing.T) {
	zero := 0
	patch := Patch{}
	patch.SetInt("hid", &zero)
	query, args, err := patch.Build("wardens", "wid", 3)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE wardens SET hid = $1 WHERE wid = $2", query)
	assert.Equal(t, []interface{}{0, 3}, args)
}
