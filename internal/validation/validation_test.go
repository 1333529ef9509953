package validation

import (
	"testing"

	"github.com/VitaminP8/hackernews/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestValidateTake(t *testing.T) {
	t.Run("Omitted take defaults to 30", func(t *testing.T) {
		take, err := ValidateTake(nil)
		require.NoError(t, err)
		assert.Equal(t, 30, take)
	})

	t.Run("Values inside the range pass through unchanged", func(t *testing.T) {
		for v := MinTake; v <= MaxTake; v++ {
			take, err := ValidateTake(intPtr(v))
			require.NoError(t, err)
			assert.Equal(t, v, take)
		}
	})

	t.Run("Values outside the range fail with bounds", func(t *testing.T) {
		for _, v := range []int{-100, -1, 0, 51, 1000} {
			_, err := ValidateTake(intPtr(v))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)

			var rangeErr *OutOfRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, v, rangeErr.Value)
			assert.Equal(t, 1, rangeErr.Min)
			assert.Equal(t, 50, rangeErr.Max)
		}
	})
}

func TestValidateSkip(t *testing.T) {
	t.Run("Omitted skip defaults to 0", func(t *testing.T) {
		skip, err := ValidateSkip(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, skip)
	})

	t.Run("Non-negative values pass through", func(t *testing.T) {
		for _, v := range []int{0, 1, 30, 100000} {
			skip, err := ValidateSkip(intPtr(v))
			require.NoError(t, err)
			assert.Equal(t, v, skip)
		}
	})

	t.Run("Negative values fail", func(t *testing.T) {
		_, err := ValidateSkip(intPtr(-1))
		assert.ErrorIs(t, err, apperror.ErrValidation)

		var negErr *NegativeValueError
		require.ErrorAs(t, err, &negErr)
		assert.Equal(t, -1, negErr.Value)
	})
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://www.howtographql.com",
		"http://localhost:4000/graphql",
		"https://example.com/path?q=1#frag",
	}
	for _, raw := range valid {
		assert.True(t, ValidateURL(raw), raw)
	}

	invalid := []string{"", "not-a-url", "www.example.com", "ftp://example.com", "https://", "/relative/path"}
	for _, raw := range invalid {
		assert.False(t, ValidateURL(raw), raw)
	}
}

func TestParseEntityID(t *testing.T) {
	id, ok := ParseEntityID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	id, ok = ParseEntityID("007")
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)

	for _, raw := range []string{"", "12a", "-5", "+5", " 1", "1.5", "abc", "99999999999999999999999"} {
		_, ok := ParseEntityID(raw)
		assert.False(t, ok, raw)
	}
}
