package errno

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConvertErr(t *testing.T) {
	assert.Equal(t, Success, ConvertErr(nil))

	wrapped := errors.Wrap(NotFoundErr.WithMessage("video not found"), "GetVideo failed")
	e := ConvertErr(wrapped)
	assert.EqualValues(t, NotFoundCode, e.ErrCode)
	assert.Equal(t, "video not found", e.ErrMsg)

	e = ConvertErr(errors.Wrap(errors.New("Error 1146: Table 'viewtube.videos' doesn't exist"), "GetVideo failed"))
	assert.EqualValues(t, ServiceErrCode, e.ErrCode)
	assert.Equal(t, "Internal server error", e.ErrMsg)
	assert.NotContains(t, e.ErrMsg, "videos")
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
}

func TestIsIgnoresMessage(t *testing.T) {
	err := errors.Wrap(ForbiddenErr.WithMessage("You cannot subscribe to yourself"), "ToggleSubscribe")
	assert.True(t, IsForbidden(err))
	assert.False(t, IsNotFound(err))
	assert.True(t, IsConflict(ConflictErr.WithMessagef("user %d already has a channel", 7)))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrNo]int{
		Success:          http.StatusOK,
		ParamErr:         http.StatusBadRequest,
		ForbiddenErr:     http.StatusForbidden,
		UnverifiedErr:    http.StatusForbidden,
		NotFoundErr:      http.StatusNotFound,
		ConflictErr:      http.StatusConflict,
		TokenInvailedErr: http.StatusUnauthorized,
		ServiceErr:       http.StatusInternalServerError,
	}
	for e, status := range cases {
		assert.Equal(t, status, e.HTTPStatus(), e.ErrMsg)
	}
}
