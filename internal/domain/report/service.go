package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gym-insights/backend/internal/domain/analytics"
	"gym-insights/backend/internal/utils"
	"gym-insights/backend/internal/zoezi"
)

// ScheduleAPI is the slice of the upstream client the report needs.
type ScheduleAPI interface {
	Workouts(ctx context.Context, siteID int64, from, to string) ([]analytics.SessionRecord, error)
	Sites(ctx context.Context) ([]zoezi.Site, error)
	TrainingCardTypes(ctx context.Context) ([]zoezi.CardType, error)
}

type Service struct {
	api ScheduleAPI
	agg *analytics.Service
}

func NewService(api ScheduleAPI, agg *analytics.Service) *Service {
	return &Service{api: api, agg: agg}
}

// Build fetches the window's sessions plus enrichment data, aggregates, and
// assembles the response. The schedule fetch is mandatory; the site and
// card-type lookups fail soft — on error they are logged and replaced by
// empty lists.
func (s *Service) Build(ctx context.Context, q Query) (*Result, error) {
	q.Trim()
	if q.SiteID <= 0 {
		return nil, fmt.Errorf("%w: siteId is required", ErrBadRequest)
	}
	if !utils.IsDate(q.StartDate) || !utils.IsDate(q.EndDate) {
		return nil, fmt.Errorf("%w: start and end must be YYYY-MM-DD dates", ErrBadRequest)
	}
	if q.StartDate > q.EndDate {
		return nil, fmt.Errorf("%w: start date is after end date", ErrBadRequest)
	}

	var (
		sessions  []analytics.SessionRecord
		sites     []zoezi.Site
		cardTypes []zoezi.CardType
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.api.Workouts(gctx, q.SiteID, q.StartDate, q.EndDate)
		return err
	})
	g.Go(func() error {
		got, err := s.api.Sites(gctx)
		if err != nil {
			log.Warn().Err(err).Msg("site lookup failed, continuing without site names")
			return nil
		}
		sites = got
		return nil
	})
	g.Go(func() error {
		got, err := s.api.TrainingCardTypes(gctx)
		if err != nil {
			log.Warn().Err(err).Msg("card type lookup failed, continuing without card types")
			return nil
		}
		cardTypes = got
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, zoezi.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if sites == nil {
		sites = []zoezi.Site{}
	}
	if cardTypes == nil {
		cardTypes = []zoezi.CardType{}
	}

	siteName := ""
	for _, site := range sites {
		if site.ID == q.SiteID {
			siteName = site.Name
			break
		}
	}

	return &Result{
		SiteID:    q.SiteID,
		SiteName:  siteName,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Analytics: s.agg.Aggregate(sessions),
		Sites:     sites,
		CardTypes: cardTypes,
		Sessions:  s.listing(sessions),
	}, nil
}

func (s *Service) listing(sessions []analytics.SessionRecord) []SessionListing {
	opts := s.agg.Options()
	out := make([]SessionListing, 0, len(sessions))
	for _, rec := range sessions {
		item := SessionListing{
			Type:     rec.TypeName,
			Color:    rec.TypeColor,
			Booked:   rec.Booked,
			Capacity: rec.Capacity,
		}
		if item.Type == "" {
			item.Type = opts.UnknownLabel
		}
		if item.Color == "" {
			item.Color = opts.FallbackColor
		}
		if start, err := utils.ParseTime(rec.StartTime); err == nil {
			item.Date = start.Format("2006-01-02")
			item.Time = start.Format("15:04")
		} else {
			item.Date = rec.StartTime
		}
		for _, ins := range rec.Instructors {
			item.Instructors = append(item.Instructors, utils.DisplayName(ins.FirstName, ins.LastName, opts.UnknownLabel))
		}
		out = append(out, item)
	}
	return out
}
