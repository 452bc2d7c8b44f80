package shared

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

func formRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, req.ParseForm())
	return req
}

func TestFloatRejectsNonFinite(t *testing.T) {
	r := formRequest(t, url.Values{"a": {"NaN"}, "b": {"+Inf"}, "c": {"-inf"}, "d": {" 2.5 "}, "e": {"x"}})
	require.Nil(t, Float(r, "a"))
	require.Nil(t, Float(r, "b"))
	require.Nil(t, Float(r, "c"))
	require.Nil(t, Float(r, "e"))
	require.Nil(t, Float(r, "missing"))
	require.Equal(t, 2.5, *Float(r, "d"))
}

func TestOptionalInt(t *testing.T) {
	r := formRequest(t, url.Values{"blank": {" "}, "ok": {"7"}, "word": {"abc"}, "zero": {"0"}, "neg": {"-3"}})

	v, err := OptionalInt(r, "blank")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = OptionalInt(r, "ok")
	require.NoError(t, err)
	require.Equal(t, int64(7), *v)

	for _, key := range []string{"word", "zero", "neg"} {
		_, err = OptionalInt(r, key)
		require.ErrorIs(t, err, internalShared.ErrBadForm, key)
	}
}
