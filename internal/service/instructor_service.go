package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/dto"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

// InstructorService exposes the roster.
type InstructorService struct {
	instructors instructorReader
	logger      *zap.Logger
}

// NewInstructorService wires the service.
func NewInstructorService(instructors instructorReader, logger *zap.Logger) *InstructorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{instructors: instructors, logger: logger}
}

// List returns active instructors in rotation order.
func (s *InstructorService) List(ctx context.Context) ([]dto.InstructorResponse, error) {
	instructors, err := s.instructors.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	responses := make([]dto.InstructorResponse, 0, len(instructors))
	for _, instructor := range instructors {
		responses = append(responses, dto.InstructorResponse{
			ID:           instructor.ID,
			FirstName:    instructor.FirstName,
			Surname:      instructor.Surname,
			Email:        instructor.Email,
			DisplayOrder: instructor.DisplayOrder,
			Active:       instructor.Active,
		})
	}
	return responses, nil
}
