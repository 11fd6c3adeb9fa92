package errors

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
)

func TestFormatErrorOrNil(t *testing.T) {
	assert.NoError(t, FormatErrorOrNil(nil))

	var merr *multierror.Error
	assert.NoError(t, FormatErrorOrNil(merr))

	errToken := errors.New("token not found")
	merr = multierror.Append(merr, errToken)
	err := FormatErrorOrNil(merr)
	assert.EqualError(t, err, "token not found")
	assert.ErrorIs(t, err, errToken)

	merr = multierror.Append(merr, errors.New("ping server not found"))
	assert.EqualError(t, FormatErrorOrNil(merr), "2 errors occurred:\n\t* token not found\n\t* ping server not found")
}
