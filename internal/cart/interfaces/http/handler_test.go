package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wyfcoding/ecommerce/internal/cart/application"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCartHandler(nil)

	cases := []struct {
		err    error
		status int
	}{
		{application.ErrInvalidQuantity, http.StatusBadRequest},
		{catalogdomain.ErrInsufficientStock, http.StatusBadRequest},
		{fmt.Errorf("%w: keyboard", catalogdomain.ErrInsufficientStock), http.StatusBadRequest},
		{catalogdomain.ErrProductNotFound, http.StatusNotFound},
		{cartdomain.ErrCartNotFound, http.StatusNotFound},
		{cartdomain.ErrLineNotFound, http.StatusNotFound},
		{cartdomain.ErrVersionConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.writeError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}
