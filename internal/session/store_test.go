package session_test

import (
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/localstore"
	"app/internal/session"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	ls, err := localstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return session.NewStore(ls)
}

func buyer() *model.User {
	return &model.User{ID: "u-1", Email: "buyer@example.com", Role: model.RoleBuyer}
}

// expクレームだけ持つHS256トークンを作る（署名は検証されない前提）
func tokenWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSession_SaveAndCurrent(t *testing.T) {
	s := newSessionStore(t)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.Save("tok-1", buyer(), exp))

	sess := s.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "buyer@example.com", sess.User.Email)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsBuyer())
}

func TestSession_ExpiredIsAbsent(t *testing.T) {
	s := newSessionStore(t)

	//期限切れは「無い」と同じ。検出時点で保存値も消える
	require.NoError(t, s.Save("tok-1", buyer(), time.Now().Add(-time.Minute)))

	assert.Nil(t, s.Current())
	assert.Equal(t, "", s.Token())
	assert.False(t, s.IsAuthenticated())
}

func TestSession_JWTExpiryFallback(t *testing.T) {
	s := newSessionStore(t)

	//期限キーを保存しない場合はJWTのexpを覗く
	expired := tokenWithExp(t, time.Now().Add(-time.Minute))
	require.NoError(t, s.Save(expired, buyer(), time.Time{}))
	assert.Nil(t, s.Current())

	valid := tokenWithExp(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Save(valid, buyer(), time.Time{}))
	require.NotNil(t, s.Current())
}

func TestSession_Clear(t *testing.T) {
	s := newSessionStore(t)

	require.NoError(t, s.Save("tok-1", buyer(), time.Now().Add(time.Hour)))
	s.Clear()

	assert.Nil(t, s.Current())
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsBuyer())
}

func TestSession_SellerIsNotBuyer(t *testing.T) {
	s := newSessionStore(t)

	seller := &model.User{ID: "u-2", Email: "seller@example.com", Role: model.RoleSeller}
	require.NoError(t, s.Save("tok-2", seller, time.Now().Add(time.Hour)))

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsBuyer())
}
