package dashboard

import (
	"net/http"
	"net/url"

	"lead-console/internal/leadapi"
	"lead-console/internal/model"
)

type adsPage struct {
	Filter  model.AdFilter
	Filters []model.AdFilter
	Ads     []model.Ad
	Err     string
}

func (s *Server) adsHandler(w http.ResponseWriter, r *http.Request) {
	filter := model.ParseAdFilter(r.URL.Query().Get("filter"))
	data := s.newPageData(r, "Ads", "ads")
	page := adsPage{
		Filter:  filter,
		Filters: []model.AdFilter{model.AdFilterAll, model.AdFilterActive, model.AdFilterInactive},
	}

	ads, err := s.backend.ListAds(r.Context(), filter)
	if err != nil {
		s.logger.Error().Err(err).Str("filter", string(filter)).Msg("list ads")
		page.Err = leadapi.UserMessage(err, "Failed to load ads")
	}
	page.Ads = ads
	data.Page = page
	s.render(w, http.StatusOK, "ads.html", data)
}

func (s *Server) syncHandler(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	if err := r.ParseForm(); err == nil {
		if f := r.PostForm.Get("filter"); f != "" {
			q.Set("filter", string(model.ParseAdFilter(f)))
		}
	}

	res, err := s.backend.SyncAds(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("sync ads")
		q.Set("error", leadapi.UserMessage(err, "Failed to sync ads"))
	} else {
		s.logger.Info().
			Int("total", res.Stats.Total).
			Int("created", res.Stats.Created).
			Int("updated", res.Stats.Updated).
			Int("deactivated", res.Stats.Deactivated).
			Msg("ads synced")
		q.Set("message", res.Message)
	}
	http.Redirect(w, r, "/ads?"+q.Encode(), http.StatusSeeOther)
}
