package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/backend"
)

type brandForm struct {
	BrandName    string `json:"brandName" validate:"required,max=10"`
	BrandWebsite string `json:"brandWebsite" validate:"omitempty,url"`
	Email        string `json:"email" validate:"omitempty,email"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	errs := ValidateStruct(brandForm{BrandWebsite: "not a url", Email: "nope"}, map[string]string{"brandName": "Brand name"})
	require.Equal(t, FieldErrors{
		"brandName":    "Brand name is required",
		"brandWebsite": "brandWebsite must be a valid URL",
		"email":        "email must be a valid email address",
	}, errs)
	require.ErrorIs(t, errs.Err(), backend.ErrValidation)

	require.Empty(t, ValidateStruct(brandForm{BrandName: "Acme"}, nil))
	require.NoError(t, FieldErrors{}.Err())
}

func TestUserSafeMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{FieldErrors{"b": "B is required", "a": "A is required"}, "A is required; B is required"},
		{&backend.Error{Resource: "brand", Op: "create", Detail: "brandName exists", Err: backend.ErrValidation}, "brandName exists"},
		{fmt.Errorf("wrap: %w", backend.ErrValidation), "Please check the form and try again."},
		{fmt.Errorf("get: %w", backend.ErrNotFound), "The requested record could not be found."},
		{backend.ErrNetwork, "The server could not be reached. Please try again."},
		{context.DeadlineExceeded, "The server could not be reached. Please try again."},
		{ErrInvalidID, "The record identifier is not valid."},
		{errors.New("pq: relation missing"), "Something went wrong. Please try again."},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, UserSafeMessage(tc.err))
	}
}

func TestPlainTextStripsMarkup(t *testing.T) {
	require.Equal(t, "Steel bolts", PlainText("  <b>Steel</b> bolts<script>alert(1)</script> "))
	require.Equal(t, "", PlainText("   "))
}

func TestPaginationHelpers(t *testing.T) {
	p := NewPagination(2, 10, 25)
	require.True(t, p.HasPrev())
	require.True(t, p.HasNext())
	require.Equal(t, 11, p.From())
	require.Equal(t, 20, p.To())

	last := NewPagination(3, 10, 25)
	require.False(t, last.HasNext())
	require.Equal(t, 25, last.To())
	require.Zero(t, NewPagination(1, 10, 0).From())
}

func TestPlainTextKeepsEntitiesReadable(t *testing.T) {
	require.Equal(t, "Nuts & bolts", PlainText("Nuts &amp; <i>bolts</i>"))
}
