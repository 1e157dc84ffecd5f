package controller

import (
	"context"
	"time"

	"devroster/internal/api"
	"devroster/internal/model"

	"github.com/rs/zerolog"
)

// DefaultBannerDelay is how long the success banner stays up.
const DefaultBannerDelay = 3 * time.Second

// Service is the remote record service as the controller sees it.
type Service interface {
	Create(ctx context.Context, d model.Developer) (api.Response, error)
	Update(ctx context.Context, d model.Developer, id model.ID) (api.Response, error)
	List(ctx context.Context) ([]model.Developer, error)
	Delete(ctx context.Context, id model.ID) (api.Response, error)
}

// Runner executes effects against a Service and reports the completion event.
type Runner struct {
	Service     Service
	BannerDelay time.Duration
	Log         zerolog.Logger
}

// Run performs eff and blocks until it completes. A nil event means eff produced nothing.
func (r Runner) Run(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case FetchList:
		recs, err := r.Service.List(ctx)
		if err != nil {
			r.Log.Error().Err(err).Msg("list developers")
			return ListFailed{Err: err}
		}
		r.Log.Debug().Int("count", len(recs)).Msg("list developers")
		return ListLoaded{Records: recs}

	case CreateRecord:
		resp, err := r.Service.Create(ctx, eff.Record)
		r.logMutation(api.OpCreate, "", resp, err)
		return SubmitDone{Op: api.OpCreate, Response: resp, Err: err}

	case UpdateRecord:
		resp, err := r.Service.Update(ctx, eff.Record, eff.ID)
		r.logMutation(api.OpUpdate, eff.ID, resp, err)
		return SubmitDone{Op: api.OpUpdate, Response: resp, Err: err}

	case DeleteRecord:
		resp, err := r.Service.Delete(ctx, eff.ID)
		r.logMutation(api.OpDelete, eff.ID, resp, err)
		return DeleteDone{ID: eff.ID, Response: resp, Err: err}

	case StartBannerTimer:
		t := time.NewTimer(r.bannerDelay())
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			return BannerExpired{Seq: eff.Seq}
		}
	}
	return nil
}

func (r Runner) bannerDelay() time.Duration {
	if r.BannerDelay > 0 {
		return r.BannerDelay
	}
	return DefaultBannerDelay
}

func (r Runner) logMutation(op string, id model.ID, resp api.Response, err error) {
	if err != nil {
		r.Log.Error().Err(err).Str("op", op).Str("id", id.String()).Msg("mutation failed")
		return
	}
	ev := r.Log.Info()
	if !resp.OK(op) {
		ev = r.Log.Warn()
	}
	ev.Str("op", op).Str("id", id.String()).Int("status", resp.Status).Str("message", resp.Message).Msg("mutation")
}
