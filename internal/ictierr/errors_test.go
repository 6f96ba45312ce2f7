package ictierr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ExpectedTokensMessage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", ExpectedTokensMessage(nil))
	assert.Equal("expected Number", ExpectedTokensMessage([]string{"NUMBER"}))
	assert.Equal("expected Number or Id", ExpectedTokensMessage([]string{"NUMBER", "ID"}))
	assert.Equal("expected Number, Id, or +", ExpectedTokensMessage([]string{"NUMBER", "ID", "+"}))
}
