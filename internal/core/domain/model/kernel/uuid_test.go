package kernel_test

import (
	"testing"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsZero())
	assert.False(t, id1.IsEqual(id2))
}

func TestUUIDFromString(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name  string
		input string
	}{
		{name: "canonical", input: canonical},
		{name: "braces", input: "{" + canonical + "}"},
		{name: "urn prefix", input: "urn:uuid:" + canonical},
		{name: "no hyphens", input: "550e8400e29b41d4a716446655440000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)

			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	raw := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	id, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.Equal(t, raw, id.Bytes())

	_, err = kernel.UUIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestUUIDFromGoogle(t *testing.T) {
	raw := uuid.New()

	id, err := kernel.UUIDFromGoogle(raw)
	require.NoError(t, err)
	assert.Equal(t, raw.String(), id.String())

	_, err = kernel.UUIDFromGoogle(uuid.Nil)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	assert.True(t, zero.IsZero())
	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestOptionalUUIDEqual(t *testing.T) {
	a := kernel.NewUUID()
	sameAsA := a
	b := kernel.NewUUID()

	assert.True(t, kernel.OptionalUUIDEqual(nil, nil))
	assert.False(t, kernel.OptionalUUIDEqual(&a, nil))
	assert.True(t, kernel.OptionalUUIDEqual(&a, &sameAsA))
	assert.False(t, kernel.OptionalUUIDEqual(&a, &b))
}

func TestCloneUUID(t *testing.T) {
	assert.Nil(t, kernel.CloneUUID(nil))

	id := kernel.NewUUID()
	clone := kernel.CloneUUID(&id)
	require.NotNil(t, clone)
	assert.NotSame(t, &id, clone)
	assert.True(t, id.IsEqual(*clone))
}
