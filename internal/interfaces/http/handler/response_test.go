package handler

import (
	"strings"
	"testing"

	"github.com/Honest-88/pos-sample/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponse(t *testing.T) {
	t.Run("typed payload with meta", func(t *testing.T) {
		body := `{"success":true,"data":[{"name":"Cola"}],"meta":{"total":1,"page":1,"page_size":20,"total_pages":1}}`

		resp, err := DecodeResponse[[]struct {
			Name string `json:"name"`
		}](strings.NewReader(body))

		require.NoError(t, err)
		assert.True(t, resp.Success)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Cola", resp.Data[0].Name)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Empty(t, resp.ErrorCode())
	})

	t.Run("error envelope", func(t *testing.T) {
		body := `{"success":false,"error":{"code":"ERR_INSUFFICIENT_STOCK","message":"only 1 left"}}`

		resp, err := DecodeResponse[map[string]any](strings.NewReader(body))

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Data)
		assert.Equal(t, dto.ErrCodeInsufficientStock, resp.ErrorCode())
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := DecodeResponse[map[string]any](strings.NewReader("<html>"))
		assert.ErrorContains(t, err, "decode response")
	})
}
