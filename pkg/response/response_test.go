package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

func TestError_MapsDomainCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{domain.NewValidationError("check_out must be after check_in"), http.StatusBadRequest, `"message":"check_out must be after check_in"`},
		{domain.NewNotAuthenticatedError("sign in"), http.StatusUnauthorized, `"code":"NOT_AUTHENTICATED"`},
		{domain.NewForbiddenError("not yours"), http.StatusForbidden, `"code":"FORBIDDEN"`},
		{domain.NewNotFoundError("Booking", "b-1"), http.StatusNotFound, `"code":"NOT_FOUND"`},
		{domain.NewInvalidStateError("Cancelled", "Checked-in"), http.StatusConflict, `"code":"INVALID_STATE"`},
		{fmt.Errorf("failed to save: %w", domain.NewConflictError("duplicate booking number")), http.StatusConflict, `"code":"CONFLICT"`},
		{errors.New("connection refused"), http.StatusInternalServerError, `"message":"internal server error"`},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestPaginated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Paginated(c, []string{"a", "b"}, 5, 1, 2)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":["a","b"],"meta":{"total":5,"page":1,"limit":2,"total_pages":3}}`, w.Body.String())
}
