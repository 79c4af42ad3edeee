package fieldcrypt

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSalt = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))

func mustKey(t *testing.T, password string) Key {
	t.Helper()
	key, err := DeriveKey(password, testSalt)
	require.NoError(t, err)
	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := mustKey(t, "secret1")

	for _, plain := range []string{"p@ss", "", "correct horse battery staple", "ünïcödé ✓"} {
		ct, err := EncryptField(plain, key)
		require.NoError(t, err)
		assert.NotEqual(t, plain, ct)

		got, err := DecryptField(ct, key)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestDecrypt_WrongKeyIsDistinguishable(t *testing.T) {
	ct, err := EncryptField("p@ss", mustKey(t, "secret1"))
	require.NoError(t, err)

	_, err = DecryptField(ct, mustKey(t, "secret2"))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecrypt_Garbage(t *testing.T) {
	key := mustKey(t, "secret1")

	_, err := DecryptField("not base64 !!", key)
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = DecryptField(base64.StdEncoding.EncodeToString([]byte("tiny")), key)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDeriveKey_InvalidSalt(t *testing.T) {
	_, err := DeriveKey("secret1", "###")
	assert.Error(t, err)

	_, err = DeriveKey("secret1", base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestEncrypt_ZeroKey(t *testing.T) {
	_, err := EncryptField("p@ss", Key{})
	assert.Error(t, err)
}

func TestSealItem_EncryptsPasswordAndNotes(t *testing.T) {
	key := mustKey(t, "secret1")
	item := Item{Title: "Bank", Username: "alice", Password: "p@ss", URL: "https://bank.example", Notes: "pin 1234"}

	sealed, err := SealItem(item, key)
	require.NoError(t, err)

	assert.Equal(t, "Bank", sealed.Title)
	assert.Equal(t, "alice", sealed.Username)
	assert.Equal(t, "https://bank.example", sealed.URL)
	assert.NotEqual(t, "p@ss", sealed.Password)
	assert.NotEqual(t, "pin 1234", sealed.Notes)

	opened, err := OpenItem(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, item, opened)
}

func TestSealItem_EmptyNotesStayEmpty(t *testing.T) {
	key := mustKey(t, "secret1")

	sealed, err := SealItem(Item{Title: "Mail", Username: "a", Password: "b"}, key)
	require.NoError(t, err)
	assert.Empty(t, sealed.Notes)

	opened, err := OpenItem(sealed, key)
	require.NoError(t, err)
	assert.Empty(t, opened.Notes)
}

func TestKeyCheck(t *testing.T) {
	key := mustKey(t, "account-password")
	check, err := NewKeyCheck(key)
	require.NoError(t, err)

	assert.NoError(t, mustKey(t, "account-password").Verify(check))
	assert.ErrorIs(t, mustKey(t, "account-passwrod").Verify(check), ErrWrongKey)
	assert.ErrorIs(t, key.Verify("bm90LWEtY2hlY2s="), ErrWrongKey)
	assert.ErrorIs(t, key.Verify(""), ErrNoKeyCheck)
}

func TestKeyCheck_OtherFieldDoesNotVerify(t *testing.T) {
	key := mustKey(t, "account-password")
	ct, err := EncryptField("hunter2", key)
	require.NoError(t, err)

	assert.ErrorIs(t, key.Verify(ct), ErrWrongKey)
}
