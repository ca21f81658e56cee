package get_available_slots

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.DoctorID) == "" {
		return fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}
	return nil
}
