package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type userRepoStub struct {
	byEmail   map[string]*models.User
	byID      map[string]*models.User
	created   *models.User
	updated   *models.User
	deletedID string
	auditLogs []models.AuditLog
}

func (s *userRepoStub) List(context.Context, models.UserFilter) ([]models.User, int, error) {
	return nil, 0, nil
}

func (s *userRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(_ context.Context, user *models.User) error {
	s.created = user
	return nil
}

func (s *userRepoStub) Update(_ context.Context, user *models.User) error {
	s.updated = user
	return nil
}

func (s *userRepoStub) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return nil
}

func (s *userRepoStub) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	s.auditLogs = append(s.auditLogs, *log)
	return nil
}

func TestCreateUserHashesPasswordAndAudits(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "New.Editor@Example.com",
		Password: "sw0rdfish",
		FullName: "New Editor",
		Role:     "EDITOR",
	}, "admin-1", models.LoginRequest{IP: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, "new.editor@example.com", user.Email)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("sw0rdfish")))
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.auditLogs[0].Action)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "someone@example.com",
		Password: "sw0rdfish",
		FullName: "Someone",
		Role:     "SUPERUSER",
	}, "admin-1", models.LoginRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := &userRepoStub{byEmail: map[string]*models.User{
		"taken@example.com": {ID: "u1", Email: "taken@example.com"},
	}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "taken@example.com",
		Password: "sw0rdfish",
		FullName: "Dup",
		Role:     "VIEWER",
	}, "admin-1", models.LoginRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDeleteUserSoftDeletesAndAudits(t *testing.T) {
	repo := &userRepoStub{byID: map[string]*models.User{
		"u1": {ID: "u1", Email: "gone@example.com", Active: true},
	}}
	svc := NewUserService(repo, nil, nil)

	err := svc.Delete(context.Background(), "u1", "admin-1", models.LoginRequest{})

	require.NoError(t, err)
	assert.Equal(t, "u1", repo.deletedID)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserDelete, repo.auditLogs[0].Action)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
