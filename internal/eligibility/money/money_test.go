package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKRW(t *testing.T) {
	assert.Equal(t, "25,882,560 KRW", FormatKRW(25_882_560))
	assert.Equal(t, "0 KRW", FormatKRW(0))
	assert.Equal(t, "999 KRW", FormatKRW(999))
}
