package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "pq unique violation", err: &pq.Error{Code: "23505"}, want: KindDuplicateEntry},
		{name: "pq invalid password", err: &pq.Error{Code: "28P01"}, want: KindInvalidCredentials},
		{name: "pq invalid authorization", err: &pq.Error{Code: "28000"}, want: KindInvalidCredentials},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, want: KindDuplicateEntry},
		{name: "pgx wrapped auth failure", err: fmt.Errorf("connect: %w", &pgconn.PgError{Code: "28P01"}), want: KindInvalidCredentials},
		{name: "pq other state", err: &pq.Error{Code: "42P01"}, want: KindUnknown},
		{name: "plain error", err: errors.New("connection reset"), want: KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			translated := translateError("op", tc.err)
			assert.Equal(t, tc.want, KindOf(translated))
			assert.ErrorIs(t, translated, tc.err)
			assert.Contains(t, translated.Error(), "op")
		})
	}
}

func TestTranslateErrorNil(t *testing.T) {
	assert.NoError(t, translateError("op", nil))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "duplicate entry", KindDuplicateEntry.String())
	assert.Equal(t, "invalid credentials", KindInvalidCredentials.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
