package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config tunes receipt rendering.
type Config struct {
	// LogoPath is the header image, empty for none
	LogoPath string
	// RenderTimeout bounds PDF generation
	RenderTimeout time.Duration
	// PageSize of the document, A4 when zero
	PageSize printing.PageSize
}

// Service renders receipts for committed sales. It only reads the ledger
// and never takes part in a commit.
type Service struct {
	ledger   sale.Ledger
	parties  partner.PartyDirectory
	profiles business.ProfileRepository
	engine   *printing.TemplateEngine
	renderer printing.PDFRenderer
	storage  printing.ReceiptStorage
	viewer   printing.Viewer
	metrics  *telemetry.SaleMetrics
	config   Config
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a receipt Service
func NewService(
	ledger sale.Ledger,
	parties partner.PartyDirectory,
	profiles business.ProfileRepository,
	engine *printing.TemplateEngine,
	renderer printing.PDFRenderer,
	storage printing.ReceiptStorage,
	config Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !config.PageSize.IsValid() {
		config.PageSize = printing.PageSizeA4
	}
	return &Service{
		ledger:   ledger,
		parties:  parties,
		profiles: profiles,
		engine:   engine,
		renderer: renderer,
		storage:  storage,
		config:   config,
		now:      time.Now,
		logger:   logger.Named("receipt"),
	}
}

// SetViewer sets the program a written receipt is handed to (optional)
func (s *Service) SetViewer(v printing.Viewer) {
	s.viewer = v
}

// SetSaleMetrics sets the metrics recorder (optional)
func (s *Service) SetSaleMetrics(m *telemetry.SaleMetrics) {
	s.metrics = m
}

// Render produces the receipt of a committed sale. A sale without a client
// prints the walk-in placeholder. When only the viewer fails, the handle is
// returned together with a VIEWER_FAILED error so the artifact is not lost.
func (s *Service) Render(ctx context.Context, saleID int64) (*DocumentHandle, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "Render")
	defer span.End()
	start := time.Now()

	handle, err := s.render(ctx, saleID)

	outcome := telemetry.RenderOutcomeSuccess
	if err != nil {
		outcome = telemetry.RenderOutcomeFailed
	}
	s.metrics.RecordRender(ctx, outcome, time.Since(start))

	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Receipt rendering failed",
			zap.Int64("sale_id", saleID),
			zap.String("code", printing.RenderErrorCode(err)),
			zap.Error(err))
		return handle, err
	}
	telemetry.SetAttributes(span, "sale.id", saleID, "receipt.size", handle.Size)
	telemetry.SetOK(span)
	s.logger.Info("Receipt rendered",
		zap.Int64("sale_id", saleID),
		zap.String("key", handle.Key),
		zap.Int64("size", handle.Size))
	return handle, nil
}

func (s *Service) render(ctx context.Context, saleID int64) (*DocumentHandle, error) {
	data, err := s.collect(ctx, saleID)
	if err != nil {
		return nil, err
	}

	html, err := s.engine.RenderReceipt(ctx, data)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:     html,
		PageSize: s.config.PageSize,
		Margins:  printing.DefaultMargins(),
		Title:    fmt.Sprintf("Venta %06d", saleID),
		Timeout:  s.config.RenderTimeout,
	})
	if err != nil {
		return nil, asRenderError(printing.ErrCodeRenderFailed, "failed to render receipt PDF", err)
	}

	renderedAt := s.now()
	stored, err := s.storage.Store(ctx, &printing.StoreRequest{
		SaleID:     saleID,
		PDFData:    pdf.PDFData,
		RenderedAt: renderedAt,
	})
	if err != nil {
		return nil, asRenderError(printing.ErrCodeStorageFailed, "failed to store receipt", err)
	}

	handle := &DocumentHandle{
		SaleID:     saleID,
		Key:        stored.Key,
		Path:       stored.Path,
		URL:        stored.URL,
		Size:       stored.Size,
		PageCount:  pdf.PageCount,
		RenderedAt: renderedAt,
	}
	if s.viewer != nil && handle.Path != "" {
		if err := s.viewer.Open(ctx, handle.Path); err != nil {
			return handle, asRenderError(printing.ErrCodeViewerFailed, "failed to open receipt", err)
		}
	}
	return handle, nil
}

// collect reads everything the layout prints from committed state
func (s *Service) collect(ctx context.Context, saleID int64) (*printing.ReceiptData, error) {
	if saleID <= 0 {
		return nil, printing.NewRenderError(printing.ErrCodeSaleNotFound, fmt.Sprintf("sale %d does not exist", saleID), nil)
	}
	committed, err := s.ledger.FindSaleByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, printing.NewRenderError(printing.ErrCodeSaleNotFound, fmt.Sprintf("sale %d does not exist", saleID), err)
		}
		return nil, printing.NewRenderError(printing.ErrCodeRenderFailed, "failed to read sale", err)
	}
	// The remaining reads are independent of each other
	var (
		items   []sale.LineItem
		client  *partner.Client
		profile *business.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if items, err = s.ledger.LineItemsForSale(gctx, saleID); err != nil {
			return printing.NewRenderError(printing.ErrCodeRenderFailed, "failed to read line items", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		client, err = s.resolveClient(gctx, committed)
		return err
	})
	g.Go(func() error {
		var err error
		if profile, err = s.profiles.Get(gctx); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return printing.NewRenderError(printing.ErrCodeResourceNotFound, "business profile is not configured", err)
			}
			return printing.NewRenderError(printing.ErrCodeRenderFailed, "failed to read business profile", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logo, err := printing.LoadImageDataURI(s.config.LogoPath)
	if err != nil {
		return nil, err
	}

	data := &printing.ReceiptData{
		Logo: logo,
		Business: printing.ReceiptBusiness{
			Name:    profile.BusinessName,
			TaxID:   profile.TaxID,
			Phone:   profile.Phone,
			Address: profile.Address,
			Message: profile.ReceiptMessage,
		},
		Vendor: committed.Vendor,
		Folio:  committed.ID,
		Date:   committed.CreatedAt,
		Client: printing.ReceiptClient{
			Code:    client.Code,
			Name:    client.Name,
			Phone:   client.Phone,
			Address: client.Address,
		},
		Lines: make([]printing.ReceiptLine, 0, len(items)),
		Total: committed.Total,
	}
	for _, item := range items {
		data.Lines = append(data.Lines, printing.ReceiptLine{
			Quantity:    item.Quantity,
			Description: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	if !data.LinesTotal().Equal(committed.Total) {
		s.logger.Warn("Sale total differs from its line items",
			zap.Int64("sale_id", saleID),
			zap.String("total", committed.Total.StringFixed(2)),
			zap.String("lines_total", data.LinesTotal().StringFixed(2)))
	}
	return data, nil
}

// resolveClient returns the linked client, or the walk-in placeholder for
// sales without one or whose client record is gone
func (s *Service) resolveClient(ctx context.Context, committed *sale.Sale) (*partner.Client, error) {
	if committed.ClientID == nil {
		return partner.WalkInClient(), nil
	}
	client, err := s.parties.ClientByID(ctx, *committed.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Sale client no longer exists, printing walk-in placeholder",
				zap.Int64("sale_id", committed.ID),
				zap.Int64("client_id", *committed.ClientID))
			return partner.WalkInClient(), nil
		}
		return nil, printing.NewRenderError(printing.ErrCodeRenderFailed, "failed to read client", err)
	}
	return client, nil
}

// asRenderError keeps an existing RenderError and wraps anything else
func asRenderError(code, message string, err error) error {
	if printing.RenderErrorCode(err) != "" {
		return err
	}
	return printing.NewRenderError(code, message, err)
}
