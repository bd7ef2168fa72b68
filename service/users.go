package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/andrewpaige1/flashly-api/auth"
	"github.com/andrewpaige1/flashly-api/models"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72

	// Column sizes on models.User and models.UserDetails.
	maxNameLength     = 100
	maxUsernameLength = 64
	maxEmailLength    = 120
	maxBioLength      = 500
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// Register creates a user and its profile details, and returns a session
// token for the new account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	fields := []struct{ name, value string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"username", in.Username},
		{"email", in.Email},
		{"password", in.Password},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, "", invalid("missing required fields: %s", strings.Join(missing, ", "))
	}

	email := normalizeEmail(in.Email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, "", invalid("invalid email format")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, "", err
	}

	user := models.User{
		FirstName: titleCase(in.FirstName),
		LastName:  titleCase(in.LastName),
		Username:  strings.TrimSpace(in.Username),
		Email:     email,
	}
	if err := checkUserLengths(&user); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", storeErr("Register", "user", err)
	}
	user.PasswordHash = hash

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx.Model(&models.User{}).Where("email = ?", email)); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}
		if taken, err := usernameTaken(tx, user.Username, 0); err != nil {
			return err
		} else if taken {
			return ErrUsernameTaken
		}

		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return err
		}
		details := models.UserDetails{UserID: user.ID}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		user.Details = &details
		return nil
	})
	if err != nil {
		return nil, "", storeErr("Register", "user", err)
	}

	token, err := s.tokens.CreateToken(user.PublicID)
	if err != nil {
		return nil, "", storeErr("Register", "token", err)
	}

	s.log.Info("Register: created user", zap.String("user", user.PublicID), zap.String("username", user.Username))
	return &user, token, nil
}

// Authenticate checks an email/password pair. It never says which of the
// two was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.conn(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", storeErr("Authenticate", "user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(user.PublicID)
	if err != nil {
		return nil, "", storeErr("Authenticate", "token", err)
	}
	return &user, token, nil
}

// UserByPublicID returns the user with the given public id.
func (s *Service) UserByPublicID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("public_id = ?", id).First(&user).Error; err != nil {
		return nil, storeErr("UserByPublicID", "user", err)
	}
	return &user, nil
}

type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Username  *string
	Bio       *string
}

// UpdateProfile edits the actor's own identity fields and bio. Absent
// fields keep their value.
func (s *Service) UpdateProfile(ctx context.Context, userID string, actorID uint, patch ProfilePatch) (*models.User, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var user models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Details").Where("public_id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if user.ID != actorID {
			return forbidden("you can only edit your own profile")
		}

		if patch.FirstName != nil {
			if strings.TrimSpace(*patch.FirstName) == "" {
				return invalid("firstName cannot be blank")
			}
			user.FirstName = titleCase(*patch.FirstName)
		}
		if patch.LastName != nil {
			if strings.TrimSpace(*patch.LastName) == "" {
				return invalid("lastName cannot be blank")
			}
			user.LastName = titleCase(*patch.LastName)
		}
		if patch.Username != nil {
			username := strings.TrimSpace(*patch.Username)
			if username == "" {
				return invalid("username cannot be blank")
			}
			taken, err := usernameTaken(tx, username, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrUsernameTaken
			}
			user.Username = username
		}
		if err := checkUserLengths(&user); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}

		if patch.Bio != nil {
			if user.Details == nil {
				user.Details = &models.UserDetails{UserID: user.ID}
			}
			bio := strings.TrimSpace(*patch.Bio)
			if err := checkLength("bio", bio, maxBioLength); err != nil {
				return err
			}
			user.Details.Bio = bio
			if err := tx.Save(user.Details).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("UpdateProfile", "user", err)
	}

	s.log.Info("UpdateProfile: updated user", zap.String("user", user.PublicID))
	return &user, nil
}

// ChangePassword replaces the actor's password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, actorID uint, oldPassword, newPassword string) error {
	if actorID == 0 {
		return ErrUnauthenticated
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, actorID).Error; err != nil {
			return err
		}
		if !auth.CheckPassword(user.PasswordHash, oldPassword) {
			return ErrInvalidCredentials
		}
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		return tx.Model(&user).Update("password_hash", hash).Error
	})
	if err != nil {
		return storeErr("ChangePassword", "user", err)
	}

	s.log.Info("ChangePassword: password changed", zap.Uint("userID", actorID))
	return nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalid("password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return invalid("password must be at most %d bytes long", maxPasswordBytes)
	}
	return nil
}

func checkUserLengths(u *models.User) error {
	fields := []struct {
		name, value string
		limit       int
	}{
		{"firstName", u.FirstName, maxNameLength},
		{"lastName", u.LastName, maxNameLength},
		{"username", u.Username, maxUsernameLength},
		{"email", u.Email, maxEmailLength},
	}
	for _, f := range fields {
		if err := checkLength(f.name, f.value, f.limit); err != nil {
			return err
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

func usernameTaken(tx *gorm.DB, username string, exceptID uint) (bool, error) {
	q := tx.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return exists(q)
}

func exists(q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
