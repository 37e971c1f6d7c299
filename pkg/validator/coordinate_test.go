package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateValidatorValidate(t *testing.T) {
	v := NewCoordinateValidator()

	tests := []struct {
		name        string
		input       string
		expectedLat float64
		expectedLon float64
		expectedErr error
	}{
		{
			name:        "valid coordinate",
			input:       "52.52,13.405",
			expectedLat: 52.52,
			expectedLon: 13.405,
		},
		{
			name:        "valid with whitespace",
			input:       " 52.52 , 13.405 ",
			expectedLat: 52.52,
			expectedLon: 13.405,
		},
		{
			name:        "negative values",
			input:       "-33.8688,151.2093",
			expectedLat: -33.8688,
			expectedLon: 151.2093,
		},
		{
			name:        "boundary values",
			input:       "90,-180",
			expectedLat: 90,
			expectedLon: -180,
		},
		{
			name:        "empty string",
			input:       "",
			expectedErr: ErrEmptyCoordinate,
		},
		{
			name:        "missing longitude",
			input:       "52.52",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "too many components",
			input:       "52.52,13.405,100",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "non-numeric latitude",
			input:       "abc,13.405",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "latitude out of range",
			input:       "91,13.405",
			expectedErr: ErrLatitudeRange,
		},
		{
			name:        "longitude out of range",
			input:       "52.52,181",
			expectedErr: ErrLongitudeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := v.Validate(tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedLat, lat)
			assert.Equal(t, tt.expectedLon, lon)
		})
	}
}

func TestCoordinateValidatorFormat(t *testing.T) {
	v := NewCoordinateValidator()

	formatted, err := v.Format("52.52, 13.405")

	require.NoError(t, err)
	assert.Equal(t, "52.520000,13.405000", formatted)
}

func TestCoordinateValidatorIsValid(t *testing.T) {
	v := NewCoordinateValidator()

	assert.True(t, v.IsValid("0,0"))
	assert.False(t, v.IsValid("not a coordinate"))
	assert.False(t, v.IsValid(""))
}
