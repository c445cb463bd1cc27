package ilerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollow-lang/settype/internal/ilerr"
)

func TestDomainPanics(t *testing.T) {
	defer func() {
		r := recover()
		if assert.NotNil(t, r) {
			e, ok := r.(*ilerr.Error)
			if assert.True(t, ok) {
				assert.Equal(t, ilerr.DomainMisuse, e.Code())
			}
		}
	}()
	ilerr.Domain("bad call: %s", "reason")
}

func TestInvariantWrapsCause(t *testing.T) {
	cause := errors.New("underlying")
	defer func() {
		r := recover()
		if assert.NotNil(t, r) {
			e, ok := r.(*ilerr.Error)
			if assert.True(t, ok) {
				assert.Equal(t, ilerr.InvariantViolation, e.Code())
				assert.ErrorIs(t, e, cause)
			}
		}
	}()
	ilerr.Invariant(cause, "malformed node")
}

func TestInvariantWithoutCause(t *testing.T) {
	defer func() {
		r := recover()
		assert.NotNil(t, r)
	}()
	ilerr.Invariant(nil, "unreachable")
}
