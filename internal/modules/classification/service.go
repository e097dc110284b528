package classification

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/modules/catalog"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the classification taxonomy and the batch runner.
type Service interface {
	List(ctx context.Context) ([]Classification, error)
	Get(ctx context.Context, id int) (Classification, error)
	Create(ctx context.Context, c Classification) (Classification, error)
	Update(ctx context.Context, id int, c Classification) error
	Delete(ctx context.Context, id int) error

	// Run starts a background classification of every item and returns
	// the job immediately.
	Run(ctx context.Context) (Job, error)
	Job(ctx context.Context, id string) (Job, error)
}

type service struct {
	classifications storage.Collection[Classification]
	items           storage.Collection[catalog.Item]
	taxonomies      map[string]storage.Collection[catalog.Taxonomy]
	classifier      Classifier
	rec             audit.Recorder
	log             *zap.Logger

	batchSize int
	workers   int

	mu   sync.Mutex
	jobs map[string]*Job

	// serializes find-or-create of labels across worker goroutines
	labelMu sync.Mutex
}

// NewService creates a new classification service. classifier may call
// an external completion service; batchSize and workers bound the
// fan-out of a run.
func NewService(
	classifications storage.Collection[Classification],
	items storage.Collection[catalog.Item],
	taxonomies map[string]storage.Collection[catalog.Taxonomy],
	classifier Classifier,
	rec audit.Recorder,
	log *zap.Logger,
	batchSize, workers int,
) Service {
	if batchSize < 1 {
		batchSize = 25
	}
	if workers < 1 {
		workers = 1
	}
	return &service{
		classifications: classifications,
		items:           items,
		taxonomies:      taxonomies,
		classifier:      classifier,
		rec:             rec,
		log:             log,
		batchSize:       batchSize,
		workers:         workers,
		jobs:            map[string]*Job{},
	}
}

func (s *service) List(ctx context.Context) ([]Classification, error) {
	return s.classifications.List(ctx)
}

func (s *service) Get(ctx context.Context, id int) (Classification, error) {
	return s.classifications.Get(ctx, strconv.Itoa(id))
}

func (s *service) Create(ctx context.Context, c Classification) (Classification, error) {
	if c.Name == "" {
		return Classification{}, web.Invalid("name is required")
	}

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	if c.ID > 0 {
		if err := s.classifications.Create(ctx, strconv.Itoa(c.ID), c); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return Classification{}, web.Invalid("classification id %d is already in use", c.ID)
			}
			return Classification{}, err
		}
	} else {
		created, err := s.classifications.CreateWithNextID(ctx, func(id int) (string, Classification) {
			c.ID = id
			return strconv.Itoa(id), c
		})
		if err != nil {
			return Classification{}, err
		}
		c = created
	}

	if err := s.rec.Append(ctx, audit.NewEntry(ctx, "create", "classifications", strconv.Itoa(c.ID))); err != nil {
		return Classification{}, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id int, c Classification) error {
	if c.Name == "" {
		return web.Invalid("name is required")
	}
	old, err := s.classifications.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	if err := s.classifications.Put(ctx, strconv.Itoa(id), c); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "update", "classifications", strconv.Itoa(id)))
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.classifications.Delete(ctx, strconv.Itoa(id)); err != nil {
		return err
	}
	return s.rec.Append(ctx, audit.NewEntry(ctx, "delete", "classifications", strconv.Itoa(id)))
}

func (s *service) Run(ctx context.Context) (Job, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return Job{}, err
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		StartedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	identity := audit.IdentityFrom(ctx)
	go s.run(audit.WithIdentity(context.Background(), identity), job.ID, items)

	return *job, nil
}

func (s *service) Job(ctx context.Context, id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, storage.ErrNotFound
	}
	return *job, nil
}

// run fans batches out to the classifier through a bounded worker pool.
// Failed batches are logged and skipped, not retried.
func (s *service) run(ctx context.Context, jobID string, items []catalog.Item) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for start := 0; start < len(items); start += s.batchSize {
		end := start + s.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			s.processBatch(ctx, jobID, batch)
		}()
	}
	wg.Wait()

	s.mu.Lock()
	job := s.jobs[jobID]
	now := time.Now().UTC()
	job.Status = JobCompleted
	job.FinishedAt = &now
	s.mu.Unlock()

	e := audit.NewEntry(ctx, "classify", "items", "job:"+jobID)
	e.Details = map[string]string{
		"processed": strconv.Itoa(job.Processed),
		"failed":    strconv.Itoa(job.Failed),
	}
	if err := s.rec.Append(ctx, e); err != nil {
		s.log.Warn("failed to record classification run", zap.Error(err))
	}
	s.log.Info("classification run finished",
		zap.String("job_id", jobID),
		zap.Int("processed", job.Processed),
		zap.Int("failed", job.Failed))
}

func (s *service) processBatch(ctx context.Context, jobID string, batch []catalog.Item) {
	infos := make([]ItemInfo, 0, len(batch))
	for _, it := range batch {
		infos = append(infos, ItemInfo{
			ID:        it.UID,
			ItemLine:  s.taxonomyName(ctx, catalog.KindItemLines, it.ItemLine),
			ItemGroup: s.taxonomyName(ctx, catalog.KindItemGroups, it.ItemGroup),
			ItemType:  s.taxonomyName(ctx, catalog.KindItemTypes, it.ItemType),
		})
	}

	labels, err := s.classifier.ClassifyBatch(ctx, infos)
	if err != nil {
		s.log.Warn("classification batch failed",
			zap.String("job_id", jobID),
			zap.Int("size", len(batch)),
			zap.Error(err))
		s.mu.Lock()
		s.jobs[jobID].Failed += len(batch)
		s.mu.Unlock()
		return
	}

	merged := 0
	for uid, names := range labels {
		ids, err := s.labelIDs(ctx, names)
		if err != nil {
			s.log.Warn("resolving classification labels", zap.Error(err))
			continue
		}
		it, err := s.items.Get(ctx, uid)
		if err != nil {
			continue // item deleted mid-run
		}
		it.ClassificationsID = ids
		it.UpdatedAt = time.Now().UTC()
		if err := s.items.Put(ctx, uid, it); err != nil {
			continue
		}
		merged++
	}

	s.mu.Lock()
	s.jobs[jobID].Processed += merged
	s.mu.Unlock()
}

func (s *service) taxonomyName(ctx context.Context, kind string, id int) string {
	if id <= 0 {
		return ""
	}
	t, err := s.taxonomies[kind].Get(ctx, strconv.Itoa(id))
	if err != nil {
		return ""
	}
	return t.Name
}

// labelIDs maps label names to classification ids, creating missing
// classifications on the fly.
func (s *service) labelIDs(ctx context.Context, names []string) ([]int, error) {
	s.labelMu.Lock()
	defer s.labelMu.Unlock()

	existing, err := s.classifications.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
			continue
		}
		now := time.Now().UTC()
		created, err := s.classifications.CreateWithNextID(ctx, func(id int) (string, Classification) {
			return strconv.Itoa(id), Classification{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
		})
		if err != nil {
			return nil, err
		}
		byName[name] = created.ID
		ids = append(ids, created.ID)
	}
	return ids, nil
}
