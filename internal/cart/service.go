package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bodegonapp/bodegon-backend/internal/catalog"
	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
	"github.com/bodegonapp/bodegon-backend/pkg/metrics"
)

// Service is the cart synchronization engine. Mutations apply to the
// in-memory snapshot optimistically and persist to the store; any
// persistence failure triggers a corrective full reload so the snapshot
// converges back to stored truth. Change feed events from other devices
// trigger the same full reload, debounced to absorb bursts.
type Service interface {
	AddToCart(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*CartView, error)
	SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*CartView, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	Refresh(ctx context.Context, userID uuid.UUID) (*CartView, error)
	Close() error
}

type lineStore interface {
	ListPendingLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	FindPendingLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error)
	FindPendingLineByProduct(ctx context.Context, userID, productID uuid.UUID, isBodegon bool) (*models.CartLine, error)
	InsertLine(ctx context.Context, line *models.CartLine) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteAllPending(ctx context.Context, userID uuid.UUID) error
}

type productResolver interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.CatalogProduct, error)
}

// session holds one user's in-memory cart snapshot. version counts local
// mutations; a reload that raced a mutation is detected by comparing the
// version captured before the store read against the current one.
type session struct {
	userID uuid.UUID

	mu          sync.Mutex
	lines       []models.CartLine
	version     uint64
	loaded      bool
	fromCache   bool
	loadedAt    time.Time
	watchOnce   sync.Once
	cancelFeed  func()
	feedVersion uint64
}

type service struct {
	lines    lineStore
	products productResolver
	feed     changeFeed
	fallback fallbackStore
	met      *metrics.CartMetrics
	logg     *logger.Logger
	debounce time.Duration

	// instanceID marks events published by this process so the watcher can
	// skip reloading changes the snapshot already reflects.
	instanceID string

	baseCtx context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	closed   bool
}

// NewService wires the cart engine. The change feed and fallback cache are
// required; serving carts without them would silently lose the
// cross-device sync and offline guarantees.
func NewService(
	lines *Repository,
	products catalog.Service,
	feed changeFeed,
	fallback fallbackStore,
	met *metrics.CartMetrics,
	logg *logger.Logger,
	debounce time.Duration,
) (Service, error) {
	if lines == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cart service requires a line repository")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cart service requires the catalog service")
	}
	if feed == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cart service requires a change feed")
	}
	if fallback == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cart service requires a fallback cache")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cart service requires a logger")
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &service{
		lines:      lines,
		products:   products,
		feed:       feed,
		fallback:   fallback,
		met:        met,
		logg:       logg,
		debounce:   debounce,
		instanceID: uuid.NewString(),
		baseCtx:    ctx,
		cancel:     cancel,
		sessions:   map[uuid.UUID]*session{},
	}, nil
}

func (s *service) AddToCart(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*CartView, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	isBodegon := product.Kind == enums.ProductKindBodegon

	existing, err := s.lines.FindPendingLineByProduct(ctx, userID, product.ID, isBodegon)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up cart line")
	}

	if existing != nil {
		// Same product again folds into the existing line. The original
		// price snapshot stays even if the catalog price changed since.
		newQuantity := existing.Quantity + input.Quantity
		if err := s.lines.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			s.corrective(ctx, sess)
			return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "update cart line quantity")
		}
		return s.applyMutation(ctx, sess, enums.CartEventUpdate, existing.ID, func(lines []models.CartLine) []models.CartLine {
			for i := range lines {
				if lines[i].ID == existing.ID {
					lines[i].Quantity = newQuantity
				}
			}
			return lines
		}), nil
	}

	price := product.Price
	if (product.IsDiscount || product.IsPromo) && product.DiscountedPrice != nil {
		price = *product.DiscountedPrice
	}
	line := &models.CartLine{
		ID:           uuid.New(),
		UserID:       userID,
		Quantity:     input.Quantity,
		Price:        price,
		NameSnapshot: product.Name,
	}
	if isBodegon {
		id := product.ID
		line.BodegonProductID = &id
	} else {
		id := product.ID
		line.RestaurantProductID = &id
	}

	inserted, err := s.lines.InsertLine(ctx, line)
	if err != nil {
		s.corrective(ctx, sess)
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "insert cart line")
	}
	return s.applyMutation(ctx, sess, enums.CartEventInsert, inserted.ID, func(lines []models.CartLine) []models.CartLine {
		return append(lines, *inserted)
	}), nil
}

func (s *service) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*CartView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	line, err := s.lines.FindPendingLine(ctx, userID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up cart line")
	}

	// Zero or negative means the line goes away entirely.
	if quantity < 1 {
		if err := s.lines.DeleteLine(ctx, line.ID); err != nil {
			s.corrective(ctx, sess)
			return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "delete cart line")
		}
		return s.applyMutation(ctx, sess, enums.CartEventDelete, line.ID, removeLine(line.ID)), nil
	}

	if err := s.lines.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		s.corrective(ctx, sess)
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "update cart line quantity")
	}
	return s.applyMutation(ctx, sess, enums.CartEventUpdate, line.ID, func(lines []models.CartLine) []models.CartLine {
		for i := range lines {
			if lines[i].ID == line.ID {
				lines[i].Quantity = quantity
			}
		}
		return lines
	}), nil
}

// RemoveLine deletes one line. Removing a line that is already gone
// succeeds; another device may have beaten this one to it.
func (s *service) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.lines.FindPendingLine(ctx, userID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.view(sess), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up cart line")
	}

	if err := s.lines.DeleteLine(ctx, lineID); err != nil {
		s.corrective(ctx, sess)
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "delete cart line")
	}
	return s.applyMutation(ctx, sess, enums.CartEventDelete, lineID, removeLine(lineID)), nil
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.lines.DeleteAllPending(ctx, userID); err != nil {
		s.corrective(ctx, sess)
		return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "clear cart")
	}
	s.applyMutation(ctx, sess, enums.CartEventDelete, uuid.Nil, func([]models.CartLine) []models.CartLine {
		return nil
	})
	return nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Refresh forces a full reload from the store, bypassing the debounce.
func (s *service) Refresh(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.reload(ctx, sess, "manual"); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Close stops every feed watcher. In-memory snapshots are discarded; the
// fallback cache keeps the durable copies.
func (s *service) Close() error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = map[uuid.UUID]*session{}
	s.mu.Unlock()

	s.cancel()
	for _, sess := range sessions {
		sess.mu.Lock()
		cancelFeed := sess.cancelFeed
		sess.mu.Unlock()
		if cancelFeed != nil {
			cancelFeed()
		}
	}
	return nil
}

// session returns the user's session, creating and loading it on first
// use. The initial load prefers the store and falls back to the durable
// cache when the store is unreachable.
func (s *service) session(ctx context.Context, userID uuid.UUID) (*session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "cart service is shut down")
	}
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{userID: userID}
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	if err := s.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) ensureLoaded(ctx context.Context, sess *session) error {
	sess.mu.Lock()
	loaded := sess.loaded
	sess.mu.Unlock()
	if loaded {
		return nil
	}

	lines, err := s.lines.ListPendingLines(ctx, sess.userID)
	if err == nil {
		sess.mu.Lock()
		if !sess.loaded {
			sess.lines = lines
			sess.loaded = true
			sess.fromCache = false
			sess.loadedAt = time.Now().UTC()
		}
		sess.mu.Unlock()
		s.watch(sess)
		s.saveFallback(ctx, sess)
		return nil
	}

	cached, cacheErr := s.fallback.Load(ctx, sess.userID)
	if cacheErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	s.met.IncCacheFallback()
	s.logg.Warn(s.logg.WithUserID(ctx, sess.userID.String()), "cart store unreachable, serving fallback cache")
	sess.mu.Lock()
	if !sess.loaded {
		sess.lines = cached.Lines
		sess.loaded = true
		sess.fromCache = true
		sess.loadedAt = cached.SavedAt
	}
	sess.mu.Unlock()
	s.watch(sess)
	return nil
}

// applyMutation folds a successful store write into the local snapshot,
// announces it on the change feed and refreshes the fallback cache.
func (s *service) applyMutation(
	ctx context.Context,
	sess *session,
	eventType enums.CartEventType,
	lineID uuid.UUID,
	apply func([]models.CartLine) []models.CartLine,
) *CartView {
	sess.mu.Lock()
	sess.lines = apply(sess.lines)
	sess.version++
	sess.fromCache = false
	sess.loadedAt = time.Now().UTC()
	version := sess.version
	view := buildView(sess.userID, sess.lines, sess.version, false, sess.loadedAt)
	sess.mu.Unlock()

	event := CartEvent{
		UserID:     sess.userID,
		Type:       eventType,
		LineID:     lineID,
		Version:    version,
		Origin:     s.instanceID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, sess.userID.String()), "publish cart event failed")
	}
	s.saveFallback(ctx, sess)
	return view
}

func (s *service) view(sess *session) *CartView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return buildView(sess.userID, sess.lines, sess.version, sess.fromCache, sess.loadedAt)
}

// reload replaces the snapshot with stored truth. A result that raced a
// local mutation is discarded and the read retried once; losing the second
// race too is fine, the next feed event reloads again.
func (s *service) reload(ctx context.Context, sess *session, trigger string) error {
	for attempt := 0; attempt < 2; attempt++ {
		sess.mu.Lock()
		start := sess.version
		sess.mu.Unlock()

		lines, err := s.lines.ListPendingLines(ctx, sess.userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
		}

		sess.mu.Lock()
		if sess.version != start {
			sess.mu.Unlock()
			continue
		}
		sess.lines = lines
		sess.loaded = true
		sess.fromCache = false
		sess.loadedAt = time.Now().UTC()
		sess.mu.Unlock()

		s.met.IncReload(trigger)
		s.saveFallback(ctx, sess)
		return nil
	}
	return nil
}

func (s *service) corrective(ctx context.Context, sess *session) {
	if err := s.reload(ctx, sess, "corrective"); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, sess.userID.String()), "corrective cart reload failed", err)
	}
}

func (s *service) saveFallback(ctx context.Context, sess *session) {
	sess.mu.Lock()
	cached := cachedCart{
		UserID:  sess.userID,
		Lines:   append([]models.CartLine(nil), sess.lines...),
		Version: sess.version,
		SavedAt: time.Now().UTC(),
	}
	sess.mu.Unlock()
	if err := s.fallback.Save(ctx, cached); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, sess.userID.String()), "save cart fallback cache failed")
	}
}

// watch starts the feed consumer for the session. Events published by this
// process at or below the already-applied version are skipped; everything
// else arms the debounce timer, and the reload fires once the burst ends.
func (s *service) watch(sess *session) {
	sess.watchOnce.Do(func() {
		go func() {
			events, cancel, err := s.feed.Subscribe(s.baseCtx, sess.userID)
			if err != nil {
				s.logg.Error(s.logg.WithUserID(s.baseCtx, sess.userID.String()), "subscribe cart change feed", err)
				return
			}
			sess.mu.Lock()
			sess.cancelFeed = cancel
			sess.mu.Unlock()

			var timer *time.Timer
			var timerC <-chan time.Time
			for {
				select {
				case <-s.baseCtx.Done():
					cancel()
					return
				case event, ok := <-events:
					if !ok {
						return
					}
					sess.mu.Lock()
					ownEcho := event.Origin == s.instanceID && event.Version <= sess.version
					if event.Version > sess.feedVersion {
						sess.feedVersion = event.Version
					}
					sess.mu.Unlock()
					if ownEcho {
						continue
					}
					if timer == nil {
						timer = time.NewTimer(s.debounce)
						timerC = timer.C
					} else {
						if !timer.Stop() {
							select {
							case <-timer.C:
							default:
							}
						}
						timer.Reset(s.debounce)
					}
				case <-timerC:
					timer = nil
					timerC = nil
					if err := s.reload(s.baseCtx, sess, "push"); err != nil {
						s.logg.Error(s.logg.WithUserID(s.baseCtx, sess.userID.String()), "push-triggered cart reload failed", err)
					}
				}
			}
		}()
	})
}

func removeLine(lineID uuid.UUID) func([]models.CartLine) []models.CartLine {
	return func(lines []models.CartLine) []models.CartLine {
		out := lines[:0]
		for _, line := range lines {
			if line.ID != lineID {
				out = append(out, line)
			}
		}
		return out
	}
}
