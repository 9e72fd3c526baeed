package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context, actor models.Actor) (models.DashboardStats, error)
}

type dashboardService struct {
	users   repositories.UserRepository
	events  repositories.EventRepository
	games   repositories.GameRepository
	reviews repositories.ReviewRepository
	photos  repositories.PhotoRepository
	now     func() time.Time
}

func NewDashboardService(
	users repositories.UserRepository,
	events repositories.EventRepository,
	games repositories.GameRepository,
	reviews repositories.ReviewRepository,
	photos repositories.PhotoRepository,
) DashboardService {
	return &dashboardService{
		users:   users,
		events:  events,
		games:   games,
		reviews: reviews,
		photos:  photos,
		now:     time.Now,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, actor models.Actor) (models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := Authorize(actor, adminResource(ResourceDashboard), ActionManage); err != nil {
		return stats, err
	}

	now := s.now()
	pending := false

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	count(&stats.UsersTotal, func(ctx context.Context) (int, error) { return s.users.Count(ctx, false) })
	count(&stats.AdminsTotal, func(ctx context.Context) (int, error) { return s.users.Count(ctx, true) })
	count(&stats.EventsTotal, func(ctx context.Context) (int, error) { return s.events.Count(ctx, nil) })
	count(&stats.UpcomingEvents, func(ctx context.Context) (int, error) { return s.events.Count(ctx, &now) })
	count(&stats.GamesTotal, func(ctx context.Context) (int, error) { return s.games.Count(ctx, nil) })
	count(&stats.PendingGames, func(ctx context.Context) (int, error) { return s.games.Count(ctx, &pending) })
	count(&stats.ReviewsTotal, s.reviews.Count)
	count(&stats.PhotosTotal, s.photos.Count)

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return stats, nil
}
