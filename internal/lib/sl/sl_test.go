package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feedbackhub/backend/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	attr := sl.Err(nil)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("<nil>"), attr.Value)
}

func TestOp_ReturnsOpAttr(t *testing.T) {
	attr := sl.Op("storage.New")

	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, slog.StringValue("storage.New"), attr.Value)
}
