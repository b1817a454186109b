package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stafflow.com/stafflow/model"
)

var testSecret = []byte("test-signing-secret")

func testUser() *model.User {
	return &model.User{
		ID:           7,
		EmployeeCode: "EMP007",
		FirstName:    "Asha",
		LastName:     "Nair",
		Email:        "asha@stafflow.local",
		Role:         model.RoleLabAdmin,
	}
}

func TestCreateAndParseIdentityToken(t *testing.T) {
	token, err := CreateIdentityToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := ParseIdentityToken(token, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 7, identity.UserID)
	assert.Equal(t, "asha@stafflow.local", identity.Email)
	assert.Equal(t, "Asha Nair", identity.Name)
	assert.Equal(t, model.RoleLabAdmin, identity.Role)
}

func TestParseIdentityTokenWrongSecret(t *testing.T) {
	token, err := CreateIdentityToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestParseIdentityTokenExpired(t *testing.T) {
	token, err := CreateIdentityToken(testUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseIdentityTokenGarbage(t *testing.T) {
	_, err := ParseIdentityToken("not.a.token", testSecret)
	assert.Error(t, err)
}
