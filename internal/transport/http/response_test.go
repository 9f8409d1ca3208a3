package httptransport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performResponse(write func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	write(c)
	return w
}

func TestSuccessDefaultMessage(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		Success(c, gin.H{"id": "abc"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, MsgSuccess, resp.Msg)
	assert.NotNil(t, resp.Data)
}

func TestCreatedDefaultMessage(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		Created(c, gin.H{"id": "abc"})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, CodeCreated, resp.Code)
	assert.Equal(t, MsgCreated, resp.Msg)
}

func TestNoContentMessage(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		NoContent(c)
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, CodeNoContent, resp.Code)
	assert.Equal(t, MsgOperationOK, resp.Msg)
	assert.Nil(t, resp.Data)
}

func TestErrorHelperMapping(t *testing.T) {
	tests := []struct {
		name     string
		write    func(c *gin.Context)
		httpCode int
		bizCode  int
		msg      string
	}{
		{
			name:     "bad request",
			write:    func(c *gin.Context) { BadRequest(c, MsgInvalidRequest) },
			httpCode: http.StatusBadRequest,
			bizCode:  CodeBadRequest,
			msg:      MsgInvalidRequest,
		},
		{
			name:     "unauthorized",
			write:    func(c *gin.Context) { Unauthorized(c, MsgTokenInvalid) },
			httpCode: http.StatusUnauthorized,
			bizCode:  CodeUnauthorized,
			msg:      MsgTokenInvalid,
		},
		{
			name:     "not found",
			write:    func(c *gin.Context) { NotFound(c, MsgDomainNotFound) },
			httpCode: http.StatusNotFound,
			bizCode:  CodeNotFound,
			msg:      MsgDomainNotFound,
		},
		{
			name:     "internal error",
			write:    func(c *gin.Context) { InternalError(c, MsgInternalError) },
			httpCode: http.StatusInternalServerError,
			bizCode:  CodeInternalError,
			msg:      MsgInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performResponse(tt.write)
			assert.Equal(t, tt.httpCode, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.bizCode, resp.Code)
			assert.Equal(t, tt.msg, resp.Msg)
		})
	}
}
