package booking

import (
	"fmt"
	"strings"
	"time"

	"shutterbook/models"
)

const dateLayout = "2006-01-02"

// validateRequest checks the draft against the catalog and returns the price to charge.
// The client's price is informational only.
func validateRequest(req models.BookingRequest) (float64, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return 0, newBookingError(CodeValidation, "missing required fields: "+strings.Join(missing, ", "))
	}
	if !models.IsServiceType(req.ServiceType) {
		return 0, newBookingError(CodeValidation, fmt.Sprintf("unknown service type %q", req.ServiceType))
	}
	price, ok := models.PackagePrice(req.PackageType)
	if !ok {
		return 0, newBookingError(CodeValidation, fmt.Sprintf("unknown package %q", req.PackageType))
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return 0, newBookingError(CodeValidation, "date must be formatted as YYYY-MM-DD")
	}
	return price, nil
}
