package get_clinic_slots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules/models"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/ptr"
)

// parseQuery разбирает параметры фильтрации и пагинации
// Пустые параметры означают отсутствие фильтра; границы limit применяет queryspec
func parseQuery(clinicID string, q url.Values) (*models.GetClinicSlotsRequest, error) {
	req := &models.GetClinicSlotsRequest{ClinicID: clinicID}

	if v := q.Get("doctorId"); v != "" {
		req.DoctorID = ptr.Ptr(v)
	}

	if v := q.Get("date"); v != "" {
		date, err := domain.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.Date = &date
	}

	if v := q.Get("isBooked"); v != "" {
		isBooked, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("isBooked: %w", err)
		}
		req.IsBooked = &isBooked
	}

	var err error
	if req.Limit, err = parseNonNegative(q, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = parseNonNegative(q, "offset"); err != nil {
		return nil, err
	}

	return req, nil
}

func parseNonNegative(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return n, nil
}
