package pagemeta_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/pagemeta"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := pagemeta.Errorf(pagemeta.ENOTFOUND, "snapshot %q not found", "test")

	assert.Equal(t, pagemeta.ENOTFOUND, pagemeta.ErrorCode(err))
	assert.Equal(t, "snapshot \"test\" not found", pagemeta.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pagemeta.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pagemeta.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extracting: %w", pagemeta.Errorf(pagemeta.EUNAVAILABLE, "document unavailable"))

	assert.Equal(t, pagemeta.EUNAVAILABLE, pagemeta.ErrorCode(err))
	assert.Equal(t, "document unavailable", pagemeta.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, pagemeta.EINTERNAL, pagemeta.ErrorCode(err))
	assert.Equal(t, "Internal error.", pagemeta.ErrorMessage(err))
}
