// services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"camo-tracker/cascade"
	"camo-tracker/logger"
	"camo-tracker/models"
	"camo-tracker/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,24}$`)
	tagPattern      = regexp.MustCompile(`^[0-9]{7}$`)
)

const (
	minAccountLevel = 1
	maxAccountLevel = 1000
)

// EmailLookup resolves a user id to the auth provider's email.
type EmailLookup interface {
	LookupEmail(ctx context.Context, userID string) (string, error)
}

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return utils.BadRequest("Username must be 3-24 characters: letters, numbers, _ . -")
	}
	return nil
}

type SignupInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (in *SignupInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Email = strings.TrimSpace(in.Email)
	if err := ValidateUsername(in.Username); err != nil {
		return err
	}
	if in.Email == "" {
		return utils.BadRequest("Email is required")
	}
	return nil
}

// AccountInput is the account settings form. Master overrides Prestige.
type AccountInput struct {
	AccountLevel   *int   `json:"account_level"`
	Prestige       *int   `json:"prestige"`
	Master         bool   `json:"prestige_master"`
	ActivisionName string `json:"activision_name"`
	ActivisionTag  string `json:"activision_tag"`
}

func (in *AccountInput) Validate() error {
	in.ActivisionName = strings.TrimSpace(in.ActivisionName)
	in.ActivisionTag = strings.TrimPrefix(strings.TrimSpace(in.ActivisionTag), "#")

	if in.AccountLevel != nil && (*in.AccountLevel < minAccountLevel || *in.AccountLevel > maxAccountLevel) {
		return utils.BadRequest(fmt.Sprintf("Account level must be between %d and %d", minAccountLevel, maxAccountLevel))
	}
	if !in.Master && in.Prestige != nil && (*in.Prestige < 0 || *in.Prestige > models.MaxPrestige) {
		return utils.BadRequest(fmt.Sprintf("Prestige must be between 0 and %d", models.MaxPrestige))
	}
	if (in.ActivisionName == "") != (in.ActivisionTag == "") {
		return utils.BadRequest("Activision ID needs both a name and a tag")
	}
	if in.ActivisionName != "" {
		if len([]rune(in.ActivisionName)) < 3 {
			return utils.BadRequest("Activision name must be at least 3 characters")
		}
		if !tagPattern.MatchString(in.ActivisionTag) {
			return utils.BadRequest("Activision tag must be exactly 7 digits")
		}
	}
	return nil
}

func (in *AccountInput) prestige() *int {
	if in.Master {
		p := models.MasterPrestige
		return &p
	}
	return in.Prestige
}

// ProfileView is a profile with its derived display fields.
type ProfileView struct {
	models.Profile
	ActivisionName string        `json:"activision_name"`
	ActivisionTag  string        `json:"activision_tag"`
	Badge          PrestigeBadge `json:"prestige_badge"`
}

type PrestigeBadge struct {
	models.PrestigeBadge
	URL string `json:"url,omitempty"`
}

type ProfileService struct {
	DB         *gorm.DB
	Auditor    cascade.Auditor
	Directory  EmailLookup
	CDNBaseURL string
}

func NewProfileService(db *gorm.DB, auditor cascade.Auditor, cdnBaseURL string) *ProfileService {
	return &ProfileService{DB: db, Auditor: auditor, CDNBaseURL: strings.TrimRight(cdnBaseURL, "/")}
}

func (s *ProfileService) view(p models.Profile) *ProfileView {
	v := &ProfileView{Profile: p}
	v.ActivisionName, v.ActivisionTag = models.SplitActivisionID(p.ActivisionID)
	v.Badge.PrestigeBadge = models.BadgeForPrestige(p.Prestige)
	if v.Badge.Asset != "" && s.CDNBaseURL != "" {
		v.Badge.URL = s.CDNBaseURL + "/" + v.Badge.Asset
	}
	return v
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileView, error) {
	var p models.Profile
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Profile not found")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return s.view(p), nil
}

// Create stores the profile written at signup. Re-running signup for the same
// user overwrites the username, display name and email.
func (s *ProfileService) Create(ctx context.Context, userID string, in SignupInput) (*ProfileView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	available, err := s.UsernameAvailable(ctx, in.Username, userID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, utils.Conflict("Username is already taken")
	}

	p := models.Profile{
		ID:       userID,
		Username: &in.Username,
		Email:    in.Email,
	}
	if in.DisplayName != "" {
		p.DisplayName = &in.DisplayName
	}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "display_name", "email", "updated_at"}),
	}).Create(&p).Error; err != nil {
		// A concurrent signup took the name between the check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("Username is already taken")
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.emit(userID, "User signed up", map[string]any{"username": in.Username})
	return s.Get(ctx, userID)
}

// UpdateAccount saves the account settings form.
func (s *ProfileService) UpdateAccount(ctx context.Context, userID string, in AccountInput) (*ProfileView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := models.Profile{
		ID:           userID,
		AccountLevel: in.AccountLevel,
		Prestige:     in.prestige(),
		ActivisionID: models.JoinActivisionID(in.ActivisionName, in.ActivisionTag),
	}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_level", "prestige", "activision_id", "updated_at"}),
	}).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.emit(userID, "Account profile updated", map[string]any{
		"account_level": in.AccountLevel,
		"prestige":      p.Prestige,
		"activision_id": p.ActivisionID,
	})
	return s.Get(ctx, userID)
}

// UsernameAvailable matches case-insensitively, ignoring excludeUserID's own row.
func (s *ProfileService) UsernameAvailable(ctx context.Context, username, excludeUserID string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, utils.BadRequest("Missing username")
	}
	q := s.DB.WithContext(ctx).Model(&models.Profile{}).Where("LOWER(username) = LOWER(?)", username)
	if excludeUserID != "" {
		q = q.Where("id <> ?", excludeUserID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("username lookup failed: %w", err)
	}
	return n == 0, nil
}

// ResolveUsername returns the login email for a username. When the profile
// has no email stored, the auth provider is asked.
func (s *ProfileService) ResolveUsername(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", utils.BadRequest("Missing identifier")
	}
	var p models.Profile
	err := s.DB.WithContext(ctx).Where("LOWER(username) = LOWER(?)", identifier).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", utils.NotFound("Not found")
	}
	if err != nil {
		return "", fmt.Errorf("username lookup failed: %w", err)
	}
	if p.Email != "" {
		return p.Email, nil
	}
	if s.Directory == nil {
		return "", utils.NotFound("Not found")
	}
	email, err := s.Directory.LookupEmail(ctx, p.ID)
	if errors.Is(err, ErrAccountNotFound) {
		return "", utils.NotFound("Not found")
	}
	if err != nil {
		return "", fmt.Errorf("email lookup failed: %w", err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", p.ID).Update("email", email).Error; err != nil {
		logger.Warn().Err(err).Str("user_id", p.ID).Msg("[PROFILE] failed to cache email")
	}
	return email, nil
}

func (s *ProfileService) emit(userID, message string, context map[string]any) {
	if s.Auditor == nil {
		return
	}
	s.Auditor.Emit(userID, models.LogLevelInfo, message, context)
}
