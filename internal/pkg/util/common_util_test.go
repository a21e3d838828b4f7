package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int64{
		50:    50,
		49.5:  50,
		49.49: 49,
		-2.5:  -2,
		-2.6:  -3,
		0:     0,
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundHalfUp(in), "input %v", in)
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "creator", NormalizeHandle("  @creator "))
	assert.Equal(t, "creator", NormalizeHandle("creator"))
	assert.Equal(t, "", NormalizeHandle(" @ "))
}

func TestValidateDTO(t *testing.T) {
	type payload struct {
		UserID string `json:"userId" validate:"required"`
		Limit  int    `form:"limit" validate:"omitempty,max=50"`
	}

	err := ValidateDTO(&payload{})
	assert.EqualError(t, err, "missing userId")

	err = ValidateDTO(&payload{UserID: "u", Limit: 80})
	assert.EqualError(t, err, "invalid limit: max 50")

	assert.NoError(t, ValidateDTO(&payload{UserID: "u"}))
}

func TestValidateDTOErrorType(t *testing.T) {
	err := ValidateDTO(&struct {
		Code string `json:"code" validate:"required"`
	}{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
