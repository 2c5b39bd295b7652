package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/testutil"
	"github.com/suteetoe/tenantportal/pkg/config"
	"github.com/suteetoe/tenantportal/pkg/jwtutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ctx = context.Background()

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newIdentityService(t *testing.T, db *gorm.DB) *IdentityService {
	t.Helper()
	svc := NewIdentityService(db, jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1}))
	svc.SetHashCost(bcrypt.MinCost)
	return svc
}

type fixture struct {
	db       *gorm.DB
	identity *IdentityService
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{db: db, identity: newIdentityService(t, db)}
}

// tenant registers a tenant in the given suite and returns its identity and profile row
func (f *fixture) tenant(t *testing.T, suite string) (*auth.Identity, *model.Tenant) {
	t.Helper()
	res, err := f.identity.Register(ctx, RegisterInput{
		Email:        fmt.Sprintf("suite%s@example.com", suite),
		Password:     "secret",
		BusinessName: "Business " + suite,
		SuiteNumber:  suite,
	})
	require.NoError(t, err)

	var tenant model.Tenant
	require.NoError(t, f.db.Where("user_id = ?", res.User.ID).First(&tenant).Error)
	return &auth.Identity{UserID: res.User.ID, Email: res.User.Email, Role: res.User.Role}, &tenant
}

func (f *fixture) manager(t *testing.T, email string) (*auth.Identity, *model.Manager) {
	t.Helper()
	m, err := f.identity.CreateManager(ctx, email, "secret", "Manager "+email)
	require.NoError(t, err)
	return &auth.Identity{UserID: m.UserID, Email: m.Email, Role: model.RoleManager}, m
}

func ptr[T any](v T) *T {
	return &v
}
