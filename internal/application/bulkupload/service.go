package bulkupload

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	apppricing "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
	fileimport "github.com/storefront/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// Row error codes raised while reconciling
const (
	ErrCodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	ErrCodeSubcategoryNotFound = "SUBCATEGORY_NOT_FOUND"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// Metrics records reconciliation counters
type Metrics interface {
	RecordBulkUploadRows(ctx context.Context, source string, created, updated, failed int)
}

// Config holds bulk upload limits
type Config struct {
	MaxRows      int // rows per file, 0 for no limit
	MaxErrors    int // row errors kept in a result
	BaseCurrency string
}

// Service reconciles price lists with the catalog and a warehouse's prices
type Service struct {
	scope         transaction.Scope
	warehouseRepo warehouse.WarehouseRepository
	uploadRepo    bulk.UploadRepository
	locales       *catalog.LocaleMatcher
	metrics       Metrics
	cfg           Config
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new bulk upload Service. metrics may be nil.
// Catalog lookups go through the scope so each row sees its own transaction.
func NewService(
	scope transaction.Scope,
	warehouseRepo warehouse.WarehouseRepository,
	uploadRepo bulk.UploadRepository,
	locales *catalog.LocaleMatcher,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 100
	}
	return &Service{
		scope:         scope,
		warehouseRepo: warehouseRepo,
		uploadRepo:    uploadRepo,
		locales:       locales,
		metrics:       metrics,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// ValidationRules returns the column rules of a price list
func ValidationRules() []fileimport.FieldRule {
	zero := decimal.Zero
	return []fileimport.FieldRule{
		fileimport.Field("article").Required().MaxLength(64).Build(),
		fileimport.Field("price").Required().Decimal().MinValue(zero).Build(),
		fileimport.Field("quantity").Required().Int().MinValue(zero).Build(),
		fileimport.Field("currency").Pattern(`^[A-Za-z]{3}$`, "a 3-letter currency code").Build(),
		fileimport.Field("badge").Custom(func(v string) error {
			_, err := pricing.ParseBadge(v)
			return err
		}).Build(),
		fileimport.Field("brand").MaxLength(100).Build(),
		fileimport.Field("category").MaxLength(120).Build(),
		fileimport.Field("subcategory").MaxLength(120).Build(),
		fileimport.Field("name").MaxLength(300).Build(),
		fileimport.Field("description").MaxLength(10000).Build(),
		fileimport.Field("promo_price").Decimal().MinValue(zero).Build(),
		fileimport.Field("promo_ends_at").Date().Build(),
	}
}

// ParseRows validates raw rows and converts the valid ones. Invalid rows land in errs.
func ParseRows(raw []*fileimport.Row, errs *fileimport.ErrorCollection) []Row {
	validator := fileimport.NewFieldValidator(ValidationRules(), errs)
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		if !validator.ValidateRow(r) {
			continue
		}
		rows = append(rows, convertRow(r))
	}
	return rows
}

// convertRow converts a row that passed ValidationRules
func convertRow(r *fileimport.Row) Row {
	price, _ := fileimport.ParseDecimal(r.Get("price"))
	qty, _ := fileimport.ParseInt(r.Get("quantity"))
	row := Row{
		Line:        r.Line,
		Article:     catalog.NormalizeArticle(r.Get("article")),
		Price:       price,
		Quantity:    qty,
		Currency:    strings.ToUpper(r.Get("currency")),
		Badge:       r.Get("badge"),
		Brand:       r.Get("brand"),
		Category:    r.Get("category"),
		Subcategory: r.Get("subcategory"),
		Name:        r.Get("name"),
		Description: r.Get("description"),
	}
	if v := r.Get("promo_price"); v != "" {
		promo, _ := fileimport.ParseDecimal(v)
		row.PromoPrice = &promo
	}
	if v := r.Get("promo_ends_at"); v != "" {
		ends, _ := fileimport.ParseDate(v)
		row.PromoEndsAt = &ends
	}
	return row
}

// Upload reads a price list file, reconciles it and records the outcome in the upload log
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	locale, err := s.checkBatch(ctx, req.WarehouseID, req.Locale)
	if err != nil {
		return nil, err
	}

	format, err := fileimport.DetectFormat(req.FileName, req.ContentType)
	if err != nil {
		return nil, shared.NewDomainError("UNSUPPORTED_FORMAT", err.Error())
	}
	raw, err := fileimport.ReadRows(format, req.Body, s.cfg.MaxRows)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}

	upload, err := bulk.NewUpload(req.WarehouseID, locale, pricing.SourceBulkUpload, req.FileName, req.Size, req.UploadedBy)
	if err != nil {
		return nil, err
	}
	if err := s.uploadRepo.Save(ctx, upload); err != nil {
		return nil, err
	}

	errs := fileimport.NewErrorCollection(s.cfg.MaxErrors)
	rows := ParseRows(raw, errs)
	result, recErr := s.reconcile(ctx, req.WarehouseID, locale, pricing.SourceBulkUpload, rows, errs)
	result.TotalRows = len(raw)
	result.FailedRows = result.TotalRows - result.CreatedRows - result.UpdatedRows - result.SkippedRows

	// The log is written even when the request context is gone
	saveCtx := context.WithoutCancel(ctx)
	if recErr != nil {
		_ = upload.Cancel(result.TotalRows, result.CreatedRows, result.UpdatedRows, result.FailedRows)
	} else {
		_ = upload.Complete(result.TotalRows, result.CreatedRows, result.UpdatedRows, result.FailedRows, toErrorDetails(result.Errors))
	}
	if err := s.uploadRepo.Save(saveCtx, upload); err != nil {
		s.logger.Error("failed to save upload log", zap.String("upload_id", upload.ID.String()), zap.Error(err))
	}

	s.logger.Info("Bulk upload processed",
		zap.String("upload_id", upload.ID.String()),
		zap.String("file", req.FileName),
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.CreatedRows),
		zap.Int("updated", result.UpdatedRows),
		zap.Int("failed", result.FailedRows),
		zap.Bool("cancelled", result.Cancelled))

	return &UploadResponse{UploadID: upload.ID, Result: *result}, recErr
}

// Reconcile applies rows to the catalog and the warehouse's prices.
// Row failures are reported in the result and never abort the batch.
// When ctx is cancelled the loop stops and the partial result is returned with
// ctx.Err(); rows never reached are counted in SkippedRows.
func (s *Service) Reconcile(ctx context.Context, warehouseID uuid.UUID, locale, source string, rows []Row) (*Result, error) {
	locale, err := s.checkBatch(ctx, warehouseID, locale)
	if err != nil {
		return nil, err
	}
	errs := fileimport.NewErrorCollection(s.cfg.MaxErrors)
	result, err := s.reconcile(ctx, warehouseID, locale, source, rows, errs)
	result.TotalRows = len(rows)
	result.FailedRows = result.TotalRows - result.CreatedRows - result.UpdatedRows - result.SkippedRows
	return result, err
}

// checkBatch verifies the warehouse exists and resolves the upload locale
func (s *Service) checkBatch(ctx context.Context, warehouseID uuid.UUID, locale string) (string, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		if shared.IsNotFound(err) {
			return "", shared.NewDomainError("WAREHOUSE_NOT_FOUND", "Warehouse not found")
		}
		return "", err
	}
	if strings.TrimSpace(locale) == "" {
		return s.locales.Default(), nil
	}
	normalized, err := catalog.NormalizeLocale(locale)
	if err != nil {
		return "", err
	}
	if !s.locales.IsSupported(normalized) {
		return "", shared.NewDomainError("UNSUPPORTED_LOCALE", "Locale is not supported: "+normalized)
	}
	return normalized, nil
}

func (s *Service) reconcile(
	ctx context.Context,
	warehouseID uuid.UUID,
	locale, source string,
	rows []Row,
	errs *fileimport.ErrorCollection,
) (*Result, error) {
	result := &Result{}
	b := &batch{
		svc:           s,
		warehouseID:   warehouseID,
		locale:        locale,
		source:        source,
		now:           s.now(),
		categories:    make(map[string]*catalog.Category),
		subcategories: make(map[string]*catalog.Subcategory),
		brands:        make(map[string]uuid.UUID),
		newBrands:     make(map[string]uuid.UUID),
	}

	var stopErr error
	for i := range rows {
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			result.SkippedRows = len(rows) - i
			stopErr = err
			break
		}

		created, rowErr := b.apply(ctx, &rows[i])
		if rowErr != nil {
			errs.Add(*rowErr)
			continue
		}
		if created {
			result.CreatedRows++
		} else {
			result.UpdatedRows++
		}
	}

	result.Errors = errs.Errors()
	result.IsTruncated = errs.IsTruncated()
	if result.IsTruncated {
		result.TotalErrors = errs.TotalCount()
	}
	if s.metrics != nil {
		s.metrics.RecordBulkUploadRows(ctx, source, result.CreatedRows, result.UpdatedRows, errs.TotalCount())
	}
	return result, stopErr
}

// batch caches lookups shared by the rows of one reconciliation
type batch struct {
	svc           *Service
	warehouseID   uuid.UUID
	locale        string
	source        string
	now           time.Time
	categories    map[string]*catalog.Category
	subcategories map[string]*catalog.Subcategory
	brands        map[string]uuid.UUID
	// brands created by the row in flight; kept only if its transaction commits
	newBrands map[string]uuid.UUID
}

// apply reconciles one row in its own transaction. created reports a new item.
func (b *batch) apply(ctx context.Context, row *Row) (created bool, rowErr *RowError) {
	values := pricing.PriceValues{
		Price:       row.Price,
		Currency:    row.Currency,
		Quantity:    row.Quantity,
		PromoPrice:  row.PromoPrice,
		PromoEndsAt: row.PromoEndsAt,
	}
	badge, err := pricing.ParseBadge(row.Badge)
	if err != nil {
		return false, b.rowError(row, "badge", err)
	}
	values.Badge = badge

	clear(b.newBrands)
	err = b.svc.scope.Execute(ctx, func(repos transaction.Repositories) error {
		item, err := repos.ItemRepo().FindByArticle(ctx, row.Article)
		switch {
		case err == nil:
			created = false
		case shared.IsNotFound(err):
			item, err = b.createItem(ctx, repos, row)
			if err != nil {
				return err
			}
			created = true
		default:
			return err
		}
		_, err = apppricing.ApplyPrice(ctx, repos, item.ID, b.warehouseID, values, b.svc.cfg.BaseCurrency, b.source, b.now)
		return err
	})
	if err != nil {
		var re *RowError
		if errors.As(err, &re) {
			return false, re
		}
		return false, b.rowError(row, "", err)
	}
	maps.Copy(b.brands, b.newBrands)
	return created, nil
}

// createItem creates the item and its details for a row with an unknown article
func (b *batch) createItem(ctx context.Context, repos transaction.Repositories, row *Row) (*catalog.Item, error) {
	if row.Name == "" {
		return nil, &RowError{Line: row.Line, Article: row.Article, Column: "name",
			Code: fileimport.ErrCodeRequiredField, Message: "name is required for a new item"}
	}
	if row.Category == "" {
		return nil, &RowError{Line: row.Line, Article: row.Article, Column: "category",
			Code: fileimport.ErrCodeRequiredField, Message: "category is required for a new item"}
	}

	category, err := b.findCategory(ctx, repos.CategoryRepo(), row.Category)
	if err != nil {
		return nil, b.lookupError(row, "category", ErrCodeCategoryNotFound, row.Category, err)
	}
	categoryID := category.ID

	var subcategoryID *uuid.UUID
	if row.Subcategory != "" {
		sub, err := b.findSubcategory(ctx, repos.SubcategoryRepo(), category.ID, row.Subcategory)
		if err != nil {
			return nil, b.lookupError(row, "subcategory", ErrCodeSubcategoryNotFound, row.Subcategory, err)
		}
		subcategoryID = &sub.ID
	}

	var brandID *uuid.UUID
	if row.Brand != "" {
		id, err := b.findOrCreateBrand(ctx, repos.BrandRepo(), row.Brand)
		if err != nil {
			return nil, b.rowError(row, "brand", err)
		}
		brandID = &id
	}

	item, err := catalog.NewItem(row.Article, "")
	if err != nil {
		return nil, b.rowError(row, "article", err)
	}
	taken, err := repos.ItemRepo().ExistsBySlug(ctx, item.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		if err := item.SetSlug(item.Slug + "-" + item.ID.String()[:8]); err != nil {
			return nil, err
		}
	}
	if err := item.Classify(&categoryID, subcategoryID, brandID); err != nil {
		return nil, b.rowError(row, "subcategory", err)
	}
	details, err := catalog.NewItemDetails(item.ID, b.locale, row.Name, row.Description)
	if err != nil {
		return nil, b.rowError(row, "name", err)
	}

	if err := repos.ItemRepo().Save(ctx, item); err != nil {
		return nil, err
	}
	if err := repos.DetailsRepo().Save(ctx, details); err != nil {
		return nil, err
	}
	return item, nil
}

// findCategory matches a category by slug, then by a translated name
func (b *batch) findCategory(ctx context.Context, repo catalog.CategoryRepository, ref string) (*catalog.Category, error) {
	key := strings.ToLower(ref)
	if c, ok := b.categories[key]; ok {
		return c, nil
	}
	c, err := repo.FindBySlug(ctx, catalog.Slugify(ref))
	if shared.IsNotFound(err) {
		c, err = repo.FindByName(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	b.categories[key] = c
	return c, nil
}

// findSubcategory matches a subcategory of categoryID by slug, then by a translated name
func (b *batch) findSubcategory(ctx context.Context, repo catalog.SubcategoryRepository, categoryID uuid.UUID, ref string) (*catalog.Subcategory, error) {
	key := categoryID.String() + "/" + strings.ToLower(ref)
	if sub, ok := b.subcategories[key]; ok {
		return sub, nil
	}
	sub, err := repo.FindBySlug(ctx, catalog.Slugify(ref))
	if err == nil && sub.CategoryID != categoryID {
		err = shared.ErrNotFound
	}
	if shared.IsNotFound(err) {
		sub, err = repo.FindByName(ctx, categoryID, ref)
	}
	if err != nil {
		return nil, err
	}
	b.subcategories[key] = sub
	return sub, nil
}

func (b *batch) findOrCreateBrand(ctx context.Context, repo catalog.BrandRepository, name string) (uuid.UUID, error) {
	key := strings.ToLower(name)
	if id, ok := b.brands[key]; ok {
		return id, nil
	}
	brand, created, err := appcatalog.FindOrCreateBrand(ctx, repo, name)
	if err != nil {
		return uuid.Nil, err
	}
	if created {
		b.newBrands[key] = brand.ID
	} else {
		b.brands[key] = brand.ID
	}
	return brand.ID, nil
}

func (b *batch) lookupError(row *Row, column, code, value string, err error) error {
	if shared.IsNotFound(err) {
		return &RowError{Line: row.Line, Article: row.Article, Column: column, Code: code,
			Message: fmt.Sprintf("%s '%s' not found", column, value)}
	}
	return err
}

// rowError turns a domain error into a row error; other errors are logged and reported generically
func (b *batch) rowError(row *Row, column string, err error) *RowError {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return &RowError{Line: row.Line, Article: row.Article, Column: column, Code: de.Code, Message: de.Message}
	}
	b.svc.logger.Error("bulk upload row failed",
		zap.Int("line", row.Line),
		zap.String("article", row.Article),
		zap.Error(err))
	return &RowError{Line: row.Line, Article: row.Article, Column: column, Code: ErrCodeInternal, Message: "row could not be saved"}
}

// ListUploads lists the upload log
func (s *Service) ListUploads(ctx context.Context, filter UploadListFilter) ([]UploadLogResponse, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	uploads, err := s.uploadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.uploadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]UploadLogResponse, len(uploads))
	for i := range uploads {
		responses[i] = ToUploadLogResponse(&uploads[i])
	}
	return responses, total, nil
}

// GetUpload returns one upload log entry
func (s *Service) GetUpload(ctx context.Context, id uuid.UUID) (*UploadLogResponse, error) {
	u, err := s.uploadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUploadLogResponse(u)
	return &resp, nil
}
