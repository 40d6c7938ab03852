package service

import (
	"errors"
	"testing"

	"questedu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStoreError(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

	err := storeError("fetch roster", cause)

	assert.True(t, errors.Is(err, util.ErrStoreUnavailable))
	assert.Contains(t, err.Error(), "fetch roster")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestStoreErrorDoesNotMatchOtherSentinels(t *testing.T) {
	err := storeError("fetch class", errors.New("driver: bad connection"))

	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.False(t, errors.Is(err, util.ErrClassNotFound))
}
