package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "shutterbook/database/repository/booking"
	"shutterbook/metrics"
	"shutterbook/models"
	"shutterbook/services/tasks"
	"shutterbook/utils"

	"go.uber.org/zap"
)

const notPendingMessage = "Only pending bookings can be cancelled"

// UpdateBookingStatus moves a booking along the lifecycle. The repository applies the change only
// when the stored status is a legal source for the target, so concurrent admins cannot skip a step.
func (s *DefaultBookingService) UpdateBookingStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Booking, error) {
	to, err := models.ParseStatus(string(update.Status))
	if err != nil {
		return nil, newBookingError(CodeValidation, err.Error())
	}
	sources := models.SourcesFor(to)
	if len(sources) == 0 {
		metrics.RecordTransition(string(to), false)
		return nil, newBookingError(CodeInvalidTransition, fmt.Sprintf("bookings cannot be moved to %s", to))
	}

	updated, err := s.Repo.UpdateStatus(ctx, id, sources, to, update.AdminNotes)
	if err != nil {
		if !errors.Is(err, bookingRepo.ErrNotFound) {
			utils.GetLogger().Error("UpdateBookingStatus: update failed", zap.String("bookingID", id), zap.Error(err))
			return nil, newBookingError(CodeInternal, "failed to update booking")
		}
		metrics.RecordTransition(string(to), false)
		return nil, s.explainMiss(ctx, id, to)
	}

	metrics.RecordTransition(string(to), true)
	utils.GetLogger().Info("Booking status updated",
		zap.String("bookingID", id), zap.String("status", string(to)))
	s.notify(ctx, *updated)
	return updated, nil
}

// explainMiss tells an unknown booking apart from one whose current status forbids the transition.
func (s *DefaultBookingService) explainMiss(ctx context.Context, id string, to models.BookingStatus) error {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return newBookingError(CodeNotFound, "booking not found")
		}
		return newBookingError(CodeInternal, "failed to update booking")
	}
	return newBookingError(CodeInvalidTransition,
		fmt.Sprintf("cannot change status from %s to %s", current.Status, to))
}

func (s *DefaultBookingService) notify(ctx context.Context, b models.Booking) {
	if s.Notifier == nil {
		return
	}
	title, message := tasks.StatusMessage(b)
	n := models.StatusNotification{
		BookingID:  b.ID,
		UserID:     b.OwnerID,
		Status:     b.Status,
		AdminNotes: b.AdminNotes,
		Title:      title,
		Message:    message,
		CreatedAt:  s.now(),
	}
	// The status change is already committed; a failed enqueue only loses the notification.
	if err := s.Notifier.NotifyStatusChange(ctx, n); err != nil {
		utils.GetLogger().Warn("Failed to queue status notification", zap.String("bookingID", b.ID), zap.Error(err))
	}
}

// CancelBooking deletes the booking when it belongs to ownerID and is still pending.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id, ownerID string) (*models.CancelResult, error) {
	removed, err := s.Repo.DeleteIf(ctx, id, ownerID, models.StatusPending)
	if err == nil {
		metrics.RecordCancellation()
		utils.GetLogger().Info("Booking cancelled", zap.String("bookingID", id), zap.String("userID", ownerID))
		return &models.CancelResult{Message: "Booking cancelled successfully", Booking: removed}, nil
	}
	if !errors.Is(err, bookingRepo.ErrNotFound) {
		utils.GetLogger().Error("CancelBooking: delete failed", zap.String("bookingID", id), zap.Error(err))
		return nil, newBookingError(CodeInternal, "failed to cancel booking")
	}

	current, getErr := s.Repo.GetByID(ctx, id)
	switch {
	case errors.Is(getErr, bookingRepo.ErrNotFound):
		return nil, newBookingError(CodeNotFound, "booking not found")
	case getErr != nil:
		return nil, newBookingError(CodeInternal, "failed to cancel booking")
	case current.OwnerID != ownerID:
		return nil, newBookingError(CodeForbidden, "you can only cancel your own bookings")
	default:
		return nil, newBookingError(CodeNotCancellable, notPendingMessage)
	}
}
