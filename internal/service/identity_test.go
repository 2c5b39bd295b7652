package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
)

func TestRegisterCreatesTenantAndToken(t *testing.T) {
	f := newFixture(t)

	res, err := f.identity.Register(ctx, RegisterInput{
		Email:        " Owner@Acme.com ",
		Password:     "pw",
		BusinessName: "Acme",
		SuiteNumber:  "101",
		ContactInfo:  model.ContactInfo{Phone: "555-0100"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "owner@acme.com", res.User.Email)
	assert.Equal(t, model.RoleTenant, res.User.Role)
	assert.NotEqual(t, "pw", res.User.Password)

	profile, err := f.identity.GetProfile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", profile.BusinessName)
	assert.Equal(t, "101", profile.SuiteNumber)
	assert.Equal(t, "555-0100", profile.ContactInfo.Phone)
	require.NotNil(t, profile.EmailNotificationsEnabled)
	assert.True(t, *profile.EmailNotificationsEnabled)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	in := RegisterInput{Email: "a@b.com", Password: "pw", BusinessName: "A", SuiteNumber: "100"}
	_, err := f.identity.Register(ctx, in)
	require.NoError(t, err)

	in.SuiteNumber = "200"
	_, err = f.identity.Register(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, "Email already registered", err.Error())

	var users int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}

func TestRegisterRejectsDuplicateSuiteAtomically(t *testing.T) {
	f := newFixture(t)
	_, err := f.identity.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pw", BusinessName: "A", SuiteNumber: "100"})
	require.NoError(t, err)

	_, err = f.identity.Register(ctx, RegisterInput{Email: "c@d.com", Password: "pw", BusinessName: "C", SuiteNumber: "100"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// the account insert was rolled back with the profile
	var users int64
	require.NoError(t, f.db.Model(&model.User{}).Where("email = ?", "c@d.com").Count(&users).Error)
	assert.Zero(t, users)
}

func TestRegisterRequiresFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.identity.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pw"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestRegisterClaimsDirectoryEntry(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&model.DirectoryEntry{SuiteNumber: "105", BusinessName: "Listed"}).Error)

	_, tenant := f.tenant(t, "105")

	var entry model.DirectoryEntry
	require.NoError(t, f.db.Where("suite_number = ?", "105").First(&entry).Error)
	require.NotNil(t, entry.TenantID)
	assert.Equal(t, tenant.ID, *entry.TenantID)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.tenant(t, "101")

	res, err := f.identity.Login(ctx, "suite101@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, wrongPassword := f.identity.Login(ctx, "suite101@example.com", "nope")
	_, unknownEmail := f.identity.Login(ctx, "ghost@example.com", "secret")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.True(t, errors.Is(wrongPassword, apperr.ErrAuth))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUpdateProfileKeepsSuite(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")

	err := f.identity.UpdateProfile(ctx, id.UserID, UpdateProfileInput{
		BusinessName:              ptr("Renamed"),
		ContactInfo:               &model.ContactInfo{Website: "https://acme.test"},
		EmailNotificationsEnabled: ptr(false),
	})
	require.NoError(t, err)

	profile, err := f.identity.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.BusinessName)
	assert.Equal(t, "101", profile.SuiteNumber)
	assert.Equal(t, "https://acme.test", profile.ContactInfo.Website)
	assert.False(t, *profile.EmailNotificationsEnabled)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	id, _ := f.tenant(t, "101")

	err := f.identity.ChangePassword(ctx, id.UserID, "wrong", "next")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, f.identity.ChangePassword(ctx, id.UserID, "secret", "next"))
	_, err = f.identity.Login(ctx, id.Email, "next")
	assert.NoError(t, err)
}

func TestCreateManagerProfile(t *testing.T) {
	f := newFixture(t)
	id, m := f.manager(t, "boss@example.com")

	profile, err := f.identity.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, profile.Role)
	assert.Equal(t, m.Name, profile.Name)

	role, err := f.identity.AccountRole(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, role)

	_, err = f.identity.AccountRole(ctx, 9999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
