package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	assert.NoError(t, run([]string{"--password", "letmein", "--cost", "4"}))
	assert.NoError(t, run([]string{"--help"}))
	assert.Error(t, run(nil), "password is required")
}
