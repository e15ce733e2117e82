package services

import (
	"testing"

	"licencias_flow_go/models"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	assert.True(t, CheckPassword("secreto123", hash))
	assert.False(t, CheckPassword("otra", hash))
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := setupServicesTestDB()

	user, err := CreateUser(db, "Ana López", "ALopez", "ana@example.com", "secreto123", "")
	assert.NoError(t, err)
	assert.Equal(t, "alopez", user.Username)
	assert.Equal(t, "staff", user.Role)
	assert.NotEqual(t, "secreto123", user.Password)

	found, err := Authenticate(db, "alopez", "secreto123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = Authenticate(db, "alopez", "incorrecta")
	assert.Error(t, err)

	_, err = Authenticate(db, "nadie", "secreto123")
	assert.Error(t, err)
}

func TestCreateUserValidatesInput(t *testing.T) {
	db := setupServicesTestDB()

	_, err := CreateUser(db, "Ana", "", "ana@example.com", "secreto123", "")
	assert.Error(t, err)

	_, err = CreateUser(db, "Ana", "ana", "ana@example.com", "", "")
	assert.Error(t, err)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Hola", SanitizeText("  Hola  "))
	assert.Equal(t, "Hola", SanitizeText("<script>alert(1)</script>Hola"))
	assert.Equal(t, "Número 5", SanitizeText("Número <b>5</b>"))
	assert.Equal(t, "", SanitizeText(""))
}

func TestFindUserByUsernameIgnoresInactive(t *testing.T) {
	db := setupServicesTestDB()

	user, err := CreateUser(db, "Ana", "ana", "ana@example.com", "secreto123", "")
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = FindUserByUsername(db, "ana")
	assert.Error(t, err)
}
