package transport

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal/model"
)

func TestHeadEOF(t *testing.T) {
	assert.True(t, headEOF(model.MethodHead, io.ErrUnexpectedEOF))
	assert.True(t, headEOF(model.MethodHead, io.EOF))
	assert.False(t, headEOF(model.MethodGet, io.ErrUnexpectedEOF))
	assert.False(t, headEOF(model.MethodHead, errors.New("connection reset")))
}

func TestCollectEmptyBody(t *testing.T) {
	head := model.NewPartialResponse("u", 204, "No Content", nil)
	resp, err := collect(context.Background(), head, emptyBody{})
	require.NoError(t, err)
	assert.Empty(t, resp.Bytes)
	assert.True(t, resp.OK)
}
