package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	infra "github.com/Honest-88/pos-sample/internal/infrastructure/printing"
	"github.com/Honest-88/pos-sample/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReceiptArchiveHandler_StoresPDF(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(&infra.RenderResult{PDFData: []byte("%PDF")}, nil)

	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	handler := NewReceiptArchiveHandler(f.service, fs, zap.New(core))
	assert.Equal(t, []string{sales.EventTypeSaleRecorded}, handler.EventTypes())

	err = handler.Handle(context.Background(), sales.NewSaleRecordedEvent(f.sale))
	require.NoError(t, err)

	data, err := fs.Get(context.Background(), "receipts/2024/02/"+f.sale.ID.String()+".pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, 1, logs.FilterMessage("Receipt archived").Len())
}

func TestReceiptArchiveHandler_IgnoresOtherEvents(t *testing.T) {
	handler := NewReceiptArchiveHandler(nil, nil, nil)
	event := shared.NewEventHeader("Other", "Thing", uuid.New())

	assert.NoError(t, handler.Handle(context.Background(), &event))
}

func TestReceiptArchiveHandler_RenderFailure(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("chrome missing"))

	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	handler := NewReceiptArchiveHandler(f.service, fs, nil)

	err = handler.Handle(context.Background(), sales.NewSaleRecordedEvent(f.sale))

	require.Error(t, err)
	assert.Contains(t, err.Error(), f.sale.ID.String())
}
