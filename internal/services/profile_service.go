package services

import (
	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/services/dto"
	"braindump_backend/pkg/apperrors"
)

type ProfileService interface {
	Get(userID string) (*models.Profile, error)
	Update(userID string, req *dto.UpdateProfileRequest) (*models.Profile, error)
	// Quota returns the user's current quota snapshot. Read-only.
	Quota(userID string) (*dto.QuotaStatus, error)
}

type ProfileServiceImpl struct {
	profileRepo repositories.ProfileRepository
	quota       QuotaService
}

func NewProfileService(profileRepo repositories.ProfileRepository, quota QuotaService) ProfileService {
	return &ProfileServiceImpl{
		profileRepo: profileRepo,
		quota:       quota,
	}
}

func (s *ProfileServiceImpl) Get(userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) Update(userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	profile.DisplayName = req.DisplayName
	if req.AvatarURL != "" {
		profile.AvatarURL = req.AvatarURL
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) Quota(userID string) (*dto.QuotaStatus, error) {
	return s.quota.CheckLimit(userID)
}
