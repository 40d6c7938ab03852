package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestReportErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"班级不存在", util.ErrClassNotFound, http.StatusNotFound},
		{"报表不存在", util.ErrReportNotFound, http.StatusNotFound},
		{"无权限", util.ErrPermissionDenied, http.StatusForbidden},
		{"存储不可用", util.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{
			"存储不可用_带上下文包装",
			fmt.Errorf("%w: fetch roster: %v", util.ErrStoreUnavailable, errors.New("connection refused")),
			http.StatusServiceUnavailable,
		},
		{"其余错误归为内部错误", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)

			reportError(ctx, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
