package errs_test

import (
	"errors"
	"testing"

	"discogsload/internal/errs"

	"github.com/stretchr/testify/require"
)

func TestConstructors_NilCauseReturnsNil(t *testing.T) {
	require.NoError(t, errs.NewIoError("op", nil))
	require.NoError(t, errs.NewXmlError("op", nil))
	require.NoError(t, errs.NewParseError("field", "value", nil))
	require.NoError(t, errs.NewSchemaError("stmt", nil))
	require.NoError(t, errs.NewDatabaseError("op", nil))
	require.NoError(t, errs.NewConfigError("op", nil))
}

func TestErrors_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("boom")

	cases := []error{
		errs.NewIoError("open file", cause),
		errs.NewXmlError("read token", cause),
		errs.NewParseError("id", "abc", cause),
		errs.NewSchemaError("create table", cause),
		errs.NewDatabaseError("connect", cause),
		errs.NewConfigError("parse flags", cause),
	}

	for _, err := range cases {
		require.Error(t, err)
		require.True(t, errors.Is(err, cause))
	}
}

func TestParseError_MessageNamesFieldAndValue(t *testing.T) {
	err := errs.NewParseError("year", "notanumber", errors.New("invalid syntax"))
	require.Contains(t, err.Error(), "year")
	require.Contains(t, err.Error(), "notanumber")
}
