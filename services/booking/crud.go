package booking

import (
	"context"
	"strings"

	"shutterbook/metrics"
	"shutterbook/models"
	"shutterbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultBookingService) CreateBooking(ctx context.Context, ownerID string, req models.BookingRequest) (*models.Booking, error) {
	if ownerID == "" {
		return nil, newBookingError(CodeForbidden, "authenticated user required")
	}
	req.ServiceType = strings.TrimSpace(req.ServiceType)
	req.PackageType = strings.TrimSpace(req.PackageType)
	req.Date = strings.TrimSpace(req.Date)
	req.Location = strings.TrimSpace(req.Location)

	price, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	b := &models.Booking{
		ID:                     uuid.New().String(),
		OwnerID:                ownerID,
		ServiceType:            req.ServiceType,
		PackageType:            req.PackageType,
		Date:                   req.Date,
		Location:               req.Location,
		AdditionalRequirements: strings.TrimSpace(req.AdditionalRequirements),
		Price:                  price,
		Status:                 models.StatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		utils.GetLogger().Error("CreateBooking: failed to store booking", zap.Error(err))
		return nil, newBookingError(CodeInternal, "failed to create booking")
	}

	metrics.RecordBookingCreated(b.PackageType)
	utils.GetLogger().Info("Booking created",
		zap.String("bookingID", b.ID), zap.String("userID", ownerID), zap.Float64("price", b.Price))
	return b, nil
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, ownerID string) ([]models.Booking, error) {
	list, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		utils.GetLogger().Error("ListUserBookings: query failed", zap.String("userID", ownerID), zap.Error(err))
		return nil, newBookingError(CodeInternal, "failed to fetch bookings")
	}
	return list, nil
}

func (s *DefaultBookingService) ListAllBookings(ctx context.Context, status string) ([]models.Booking, error) {
	var filter models.BookingStatus
	if status != "" {
		parsed, err := models.ParseStatus(status)
		if err != nil {
			return nil, newBookingError(CodeValidation, err.Error())
		}
		filter = parsed
	}
	list, err := s.Repo.ListAll(ctx, filter)
	if err != nil {
		utils.GetLogger().Error("ListAllBookings: query failed", zap.Error(err))
		return nil, newBookingError(CodeInternal, "failed to fetch bookings")
	}
	return list, nil
}
