package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgepm/forge/internal/domain"
)

func TestErrPackageNotFound(t *testing.T) {
	err := domain.ErrPackageNotFound{Package: "zed@curl"}
	assert.Contains(t, err.Error(), "zed@curl")
	assert.Contains(t, err.Error(), "not found")
}

func TestErrCyclicDependency(t *testing.T) {
	err := domain.ErrCyclicDependency{Cycle: []string{"x@a", "y@b", "x@a"}}
	assert.Equal(t, "cyclic dependency detected: x@a -> y@b -> x@a", err.Error())
}

func TestErrBuildFailed_Unwrap(t *testing.T) {
	sentinel := errors.New("exit status 1")
	err := domain.ErrBuildFailed{Package: "x@a", Phase: "build", Err: sentinel}
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "build failed")
}

func TestErrTransactionFailed(t *testing.T) {
	err := domain.ErrTransactionFailed{
		Package:    "x@a",
		Committed:  2,
		Failed:     1,
		RolledBack: 2,
		Cause:      errors.New("disk full"),
	}
	msg := err.Error()
	assert.Contains(t, msg, "x@a")
	assert.Contains(t, msg, "2 files committed")
	assert.Contains(t, msg, "disk full")
}

func TestErrSelfDependency(t *testing.T) {
	err := domain.ErrSelfDependency{Name: "x@a"}
	assert.Contains(t, err.Error(), "cannot depend on itself")
}
