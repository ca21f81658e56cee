package book_slot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.SlotID) == "" {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PatientID) == "" {
		return fmt.Errorf("%w: patientId is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}
