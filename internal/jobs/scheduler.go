package jobs

import (
	"context"
	"log"
	"time"

	"adrboard/internal/repositories"
	"adrboard/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the periodic maturity sweep. Age-based promotion has no
// triggering event, so bootstrap tenants are re-evaluated on an interval to
// catch tenants that aged past their threshold without any traffic.
type Scheduler struct {
	scheduler   gocron.Scheduler
	tenantRepo  repositories.TenantRepository
	maturitySvc services.MaturityService
}

func NewScheduler(tenantRepo repositories.TenantRepository, maturitySvc services.MaturityService, sweepInterval time.Duration) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler:   scheduler,
		tenantRepo:  tenantRepo,
		maturitySvc: maturitySvc,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(s.sweepMaturity, context.Background()),
		gocron.WithName("maturity-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	log.Printf("starting background scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("stopping background scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) sweepMaturity(ctx context.Context) {
	tenants, err := s.tenantRepo.ListBootstrap(ctx)
	if err != nil {
		log.Printf("WARN: maturity sweep failed to list bootstrap tenants: %v", err)
		return
	}

	promoted := 0
	for _, tenant := range tenants {
		fresh, err := s.maturitySvc.Recalculate(ctx, tenant.ID)
		if err != nil {
			log.Printf("WARN: maturity sweep failed for %s: %v", tenant.Domain, err)
			continue
		}
		if fresh.IsMature() {
			promoted++
		}
	}
	if promoted > 0 {
		log.Printf("maturity sweep promoted %d of %d bootstrap tenants", promoted, len(tenants))
	}
}
