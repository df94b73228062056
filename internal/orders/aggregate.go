package orders

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/google/uuid"
)

// Summary is the derived view of one order: everything a dashboard row
// needs, computed from a single batch-loaded snapshot so the service list,
// progress bar and staleness figure shown together can never disagree.
type Summary struct {
	TotalServices int              `json:"total_services"`
	Progress      float64          `json:"progress"`
	CurrentStage  string           `json:"current_stage"`
	DaysSinceLast *int             `json:"days_since_last_change"`
	Services      []models.Service `json:"services"`
	Changes       []models.Change  `json:"changes"`
}

// OrderView pairs an order with its summary for cached dashboard renders.
type OrderView struct {
	Order   models.Order `json:"order"`
	Summary Summary      `json:"summary"`
}

// ListOrders returns the orders visible to a viewer. Admins see every
// order (archived ones only when asked); everyone else sees their own
// active orders.
func (s *Service) ListOrders(ctx context.Context, viewerID uuid.UUID, isAdmin, includeArchived bool) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	switch {
	case isAdmin && includeArchived:
		// no filter
	case isAdmin:
		query = query.Where("archived = ?", false)
	default:
		query = query.Where("user_id = ? AND archived = ?", viewerID, false)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Aggregate batch-loads services, change history and a stage-registry
// snapshot for the given order ids and derives each order's summary. Three
// queries total regardless of batch size; orders absent from a child table
// still get a summary. An empty id set yields an empty map.
func (s *Service) Aggregate(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]Summary, error) {
	result := make(map[uuid.UUID]Summary, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	var services []models.Service
	if err := s.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at").
		Find(&services).Error; err != nil {
		return nil, fmt.Errorf("loading services: %w", err)
	}
	servicesByOrder := make(map[uuid.UUID][]models.Service)
	for _, svc := range services {
		servicesByOrder[svc.OrderID] = append(servicesByOrder[svc.OrderID], svc)
	}

	var changes []models.Change
	if err := s.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&changes).Error; err != nil {
		return nil, fmt.Errorf("loading changes: %w", err)
	}
	changesByOrder := make(map[uuid.UUID][]models.Change)
	for _, ch := range changes {
		changesByOrder[ch.OrderID] = append(changesByOrder[ch.OrderID], ch)
	}

	var stages []models.Stage
	if err := s.db.WithContext(ctx).Order("position").Find(&stages).Error; err != nil {
		return nil, fmt.Errorf("loading stages: %w", err)
	}
	snapshot := newStageSnapshot(stages)

	now := time.Now()
	for _, orderID := range orderIDs {
		result[orderID] = summarize(servicesByOrder[orderID], changesByOrder[orderID], snapshot, now)
	}

	return result, nil
}

// Dashboard renders the aggregated view for a viewer, through the view
// cache when one is configured. The cache key carries the full viewing
// context; any mutation clears all keys.
func (s *Service) Dashboard(ctx context.Context, viewerID uuid.UUID, isAdmin, includeArchived bool) ([]OrderView, error) {
	key := fmt.Sprintf("dashboard:%s:%t:%t", viewerID, isAdmin, includeArchived)

	if s.cache != nil {
		var cached []OrderView
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("view cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	orders, err := s.ListOrders(ctx, viewerID, isAdmin, includeArchived)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	summaries, err := s.Aggregate(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = OrderView{Order: o, Summary: summaries[o.ID]}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, views); err != nil {
			s.logger.Warn("view cache write failed", "error", err)
		}
	}

	return views, nil
}

// stageSnapshot is one consistent read of the registry. All derivations in
// a batch resolve against the same snapshot, so a concurrent rename can
// never produce a half-renamed view.
type stageSnapshot struct {
	positionByID map[uuid.UUID]int
	nameByID     map[uuid.UUID]string
	maxPosition  int
	initialName  string
}

func newStageSnapshot(stages []models.Stage) stageSnapshot {
	snap := stageSnapshot{
		positionByID: make(map[uuid.UUID]int, len(stages)),
		nameByID:     make(map[uuid.UUID]string, len(stages)),
		// Guard against an empty registry so progress math never divides
		// by zero.
		maxPosition: 1,
	}
	for _, st := range stages {
		snap.positionByID[st.ID] = st.Position
		snap.nameByID[st.ID] = st.Name
		if st.Position > snap.maxPosition {
			snap.maxPosition = st.Position
		}
	}
	if len(stages) > 0 {
		// List is position-ascending, so the first entry is the pipeline's
		// initial stage.
		snap.initialName = stages[0].Name
	}
	return snap
}

// position resolves a service's stage to its pipeline position. A stage id
// missing from the snapshot (stale data) degrades to position 1 rather
// than failing the batch.
func (s stageSnapshot) position(stageID uuid.UUID) int {
	if pos, ok := s.positionByID[stageID]; ok {
		return pos
	}
	return 1
}

func summarize(services []models.Service, changes []models.Change, snap stageSnapshot, now time.Time) Summary {
	summary := Summary{
		TotalServices: len(services),
		Services:      services,
		Changes:       changes,
		// An order with no services sits at the pipeline's initial stage,
		// never at "no stage".
		CurrentStage: snap.initialName,
	}

	if len(services) > 0 {
		total := 0
		best := 0
		for _, svc := range services {
			pos := snap.position(svc.StageID)
			total += pos
			if pos > best {
				best = pos
				if name, ok := snap.nameByID[svc.StageID]; ok {
					summary.CurrentStage = name
				}
			}
		}
		mean := float64(total) / float64(len(services))
		summary.Progress = round2(100 * mean / float64(snap.maxPosition))
	}

	if len(changes) > 0 {
		// changes arrive newest-first
		days := int(now.Sub(changes[0].CreatedAt).Hours() / 24)
		summary.DaysSinceLast = &days
	}

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
