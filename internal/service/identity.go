package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/prometheus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer issues session tokens for accounts
type TokenIssuer interface {
	GenerateToken(email string, userID uint, role string) (string, error)
}

// IdentityService registers accounts, checks credentials and manages profiles
type IdentityService struct {
	db       *gorm.DB
	tokens   TokenIssuer
	hashCost int
}

func NewIdentityService(db *gorm.DB, tokens TokenIssuer) *IdentityService {
	return &IdentityService{db: db, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

// SetHashCost overrides the bcrypt cost, tests use bcrypt.MinCost
func (s *IdentityService) SetHashCost(cost int) {
	s.hashCost = cost
}

// RegisterInput holds the fields of a tenant registration
type RegisterInput struct {
	Email                     string
	Password                  string
	BusinessName              string
	SuiteNumber               string
	ContactInfo               model.ContactInfo
	EmailNotificationsEnabled *bool
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Token string
	User  model.User
}

// Register creates a tenant account and its profile in one transaction
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.SuiteNumber = strings.TrimSpace(in.SuiteNumber)
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	if in.Email == "" || in.Password == "" || in.BusinessName == "" || in.SuiteNumber == "" {
		return nil, apperr.New(apperr.ErrValidation, "Missing required fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	notifications := true
	if in.EmailNotificationsEnabled != nil {
		notifications = *in.EmailNotificationsEnabled
	}

	var user model.User
	defer prometheus.TrackDBOperation("register")(time.Now())
	err = dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.New(apperr.ErrConflict, "Email already registered")
		}

		user = model.User{Email: in.Email, Password: string(hash), Role: model.RoleTenant}
		if err := tx.Create(&user).Error; err != nil {
			return conflictOr(err, "Email already registered")
		}

		tenant := model.Tenant{
			UserID:                    &user.ID,
			BusinessName:              in.BusinessName,
			SuiteNumber:               in.SuiteNumber,
			ContactInfo:               in.ContactInfo,
			EmailNotificationsEnabled: notifications,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return conflictOr(err, "Suite number already registered")
		}

		// claim the directory listing for the suite if nobody has
		return tx.Model(&model.DirectoryEntry{}).
			Where("suite_number = ? AND tenant_id IS NULL", tenant.SuiteNumber).
			Update("tenant_id", tenant.ID).Error
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrValidation, "Email and password required")
	}

	var user model.User
	err := dbFor(ctx, s.db).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.ErrAuth, "Invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.New(apperr.ErrAuth, "Invalid email or password")
	}

	token, err := s.tokens.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Profile is the account view returned by GetProfile
type Profile struct {
	ID                        uint               `json:"id"`
	Email                     string             `json:"email"`
	Role                      string             `json:"role"`
	BusinessName              string             `json:"business_name,omitempty"`
	SuiteNumber               string             `json:"suite_number,omitempty"`
	ContactInfo               *model.ContactInfo `json:"contact_info,omitempty"`
	EmailNotificationsEnabled *bool              `json:"email_notifications_enabled,omitempty"`
	Name                      string             `json:"name,omitempty"`
}

// GetProfile returns the account merged with its role profile
func (s *IdentityService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	db := dbFor(ctx, s.db)

	var user model.User
	if err := findByID(db, &user, userID, "User"); err != nil {
		return nil, err
	}

	profile := &Profile{ID: user.ID, Email: user.Email, Role: user.Role}
	switch user.Role {
	case model.RoleTenant:
		var tenant model.Tenant
		err := db.Where("user_id = ?", user.ID).First(&tenant).Error
		if err == nil {
			profile.BusinessName = tenant.BusinessName
			profile.SuiteNumber = tenant.SuiteNumber
			profile.ContactInfo = &tenant.ContactInfo
			profile.EmailNotificationsEnabled = &tenant.EmailNotificationsEnabled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	case model.RoleManager:
		var manager model.Manager
		err := db.Where("user_id = ?", user.ID).First(&manager).Error
		if err == nil {
			profile.Name = manager.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfileInput holds the mutable profile fields. Nil fields are left alone.
type UpdateProfileInput struct {
	BusinessName              *string
	ContactInfo               *model.ContactInfo
	EmailNotificationsEnabled *bool
	Name                      *string
}

// UpdateProfile changes the role profile of the account. Suite number and role never change.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) error {
	return dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := findByID(tx, &user, userID, "User"); err != nil {
			return err
		}

		switch user.Role {
		case model.RoleTenant:
			tenant, err := tenantForUser(tx, user.ID)
			if err != nil {
				return err
			}
			if in.BusinessName != nil {
				name := strings.TrimSpace(*in.BusinessName)
				if name == "" {
					return apperr.New(apperr.ErrValidation, "Business name cannot be empty")
				}
				tenant.BusinessName = name
			}
			if in.ContactInfo != nil {
				tenant.ContactInfo = *in.ContactInfo
			}
			if in.EmailNotificationsEnabled != nil {
				tenant.EmailNotificationsEnabled = *in.EmailNotificationsEnabled
			}
			return tx.Save(tenant).Error
		case model.RoleManager:
			manager, err := managerForUser(tx, user.ID)
			if err != nil {
				return err
			}
			if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
				manager.Name = strings.TrimSpace(*in.Name)
			}
			return tx.Save(manager).Error
		}
		return nil
	})
}

// ChangePassword replaces the password after checking the current one
func (s *IdentityService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if current == "" || next == "" {
		return apperr.New(apperr.ErrValidation, "Current and new password required")
	}

	return dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := findByID(tx, &user, userID, "User"); err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
			return apperr.New(apperr.ErrValidation, "Current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(next), s.hashCost)
		if err != nil {
			return err
		}
		return tx.Model(&user).Update("password", string(hash)).Error
	})
}

// CreateManager creates a manager account with its profile
func (s *IdentityService) CreateManager(ctx context.Context, email, password, name string) (*model.Manager, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, apperr.New(apperr.ErrValidation, "Missing required fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	var manager model.Manager
	err = dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.New(apperr.ErrConflict, "Email already registered")
		}

		user := model.User{Email: email, Password: string(hash), Role: model.RoleManager}
		if err := tx.Create(&user).Error; err != nil {
			return conflictOr(err, "Email already registered")
		}

		manager = model.Manager{UserID: user.ID, Name: name, Email: email}
		return conflictOr(tx.Create(&manager).Error, "Email already registered")
	})
	if err != nil {
		return nil, err
	}
	return &manager, nil
}

// AccountRole returns the stored role of an account
func (s *IdentityService) AccountRole(ctx context.Context, userID uint) (string, error) {
	var user model.User
	if err := findByID(dbFor(ctx, s.db), &user, userID, "User"); err != nil {
		return "", err
	}
	return user.Role, nil
}
