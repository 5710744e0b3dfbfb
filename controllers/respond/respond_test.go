package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shopline/shop-api/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound, `{"error":"Product not found"}`},
		{store.ErrDuplicate, http.StatusConflict, `{"error":"Email already registered"}`},
		{store.ErrInvalidReference, http.StatusBadRequest, `{"error":"Unknown product"}`},
		{errors.New("disk on fire"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, tc.err, "Product not found")
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestID(t *testing.T) {
	for raw, want := range map[string]bool{"7": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "userId", Value: raw}}

		id, ok := ID(c, "userId")
		assert.Equal(t, want, ok, raw)
		if ok {
			assert.Equal(t, uint(7), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
