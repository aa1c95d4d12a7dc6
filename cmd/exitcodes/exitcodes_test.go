package exitcodes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, code := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, code)

	plain := errors.New("plain")
	err, code = GetInnerErrorAndExitCode(plain)
	assert.Equal(t, plain, err)
	assert.Equal(t, ExitCodeGeneralError, code)

	inner := errors.New("sequence failed")
	err, code = GetInnerErrorAndExitCode(NewErrorWithExitCode(inner, ExitCodeTestFailed))
	assert.Equal(t, inner, err)
	assert.Equal(t, ExitCodeTestFailed, code)

	err, code = GetInnerErrorAndExitCode(errors.Wrap(NewErrorWithExitCode(inner, ExitCodeHandledError), "context"))
	assert.Equal(t, inner, err)
	assert.Equal(t, ExitCodeHandledError, code)

	assert.Equal(t, "", NewErrorWithExitCode(nil, ExitCodeTestFailed).Error())
}
