package response

import (
	"errors"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

func asAppError(err error) *domain.AppError {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
