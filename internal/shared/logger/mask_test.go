package logger_test

import (
	"testing"

	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@gmail.com", logger.MaskEmail("john.doe@gmail.com"))
	assert.Equal(t, "***@example.com", logger.MaskEmail("@example.com"))
	assert.Equal(t, "***@***", logger.MaskEmail("not-an-email"))
	assert.Equal(t, "", logger.MaskEmail(""))
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "J*** D*** C***", logger.MaskName("Juan Dela Cruz"))
	assert.Equal(t, "", logger.MaskName("   "))
}
