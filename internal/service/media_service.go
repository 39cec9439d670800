package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"alcyxob/neurofeedback-app/internal/registry"
	"alcyxob/neurofeedback-app/internal/storage"
)

var ErrMediaUnavailable = errors.New("program material storage is not configured")

// MaterialURL is a presigned URL for a program's training material.
type MaterialURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MediaService hands out presigned URLs for program material.
// Only the creator may upload or delete; the creator and enrolled users may download.
type MediaService interface {
	MaterialUploadURL(ctx context.Context, sender string, programID uint64, contentType string) (*MaterialURL, error)
	MaterialDownloadURL(ctx context.Context, user string, programID uint64) (*MaterialURL, error)
	DeleteMaterial(ctx context.Context, sender string, programID uint64) error
}

type mediaService struct {
	reg     Registry
	storage storage.FileStorage // nil when no bucket is configured
	expiry  time.Duration
	log     *slog.Logger
}

// NewMediaService creates a MediaService. fileStorage may be nil, in which case
// every call fails with ErrMediaUnavailable.
func NewMediaService(reg Registry, fileStorage storage.FileStorage, expiry time.Duration, log *slog.Logger) MediaService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &mediaService{reg: reg, storage: fileStorage, expiry: expiry, log: log}
}

func (s *mediaService) MaterialUploadURL(ctx context.Context, sender string, programID uint64, contentType string) (*MaterialURL, error) {
	if err := s.authorizeCreator(sender, programID); err != nil {
		return nil, err
	}
	key := storage.ProgramMaterialKey(programID)
	url, err := s.storage.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "material upload url issued", "program_id", programID, "principal", sender)
	return &MaterialURL{URL: url, ObjectKey: key, ExpiresAt: time.Now().Add(s.expiry)}, nil
}

func (s *mediaService) MaterialDownloadURL(ctx context.Context, user string, programID uint64) (*MaterialURL, error) {
	if s.storage == nil {
		return nil, ErrMediaUnavailable
	}
	program, ok := s.reg.GetProgram(programID)
	if !ok {
		return nil, ErrProgramNotFound
	}
	if program.Creator != user {
		if _, enrolled := s.reg.GetUserProgram(user, programID); !enrolled {
			return nil, registry.ErrUnauthorized
		}
	}
	key := storage.ProgramMaterialKey(programID)
	url, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.expiry)
	if err != nil {
		return nil, err
	}
	return &MaterialURL{URL: url, ObjectKey: key, ExpiresAt: time.Now().Add(s.expiry)}, nil
}

func (s *mediaService) DeleteMaterial(ctx context.Context, sender string, programID uint64) error {
	if err := s.authorizeCreator(sender, programID); err != nil {
		return err
	}
	return s.storage.DeleteObject(ctx, storage.ProgramMaterialKey(programID))
}

func (s *mediaService) authorizeCreator(sender string, programID uint64) error {
	if s.storage == nil {
		return ErrMediaUnavailable
	}
	program, ok := s.reg.GetProgram(programID)
	if !ok {
		return ErrProgramNotFound
	}
	if program.Creator != sender {
		return registry.ErrUnauthorized
	}
	return nil
}
