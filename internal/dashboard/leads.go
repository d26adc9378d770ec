package dashboard

import (
	"net/http"
	"strconv"
	"sync"

	"lead-console/internal/leadapi"
	"lead-console/internal/model"
)

type leadsPage struct {
	Stats    *model.LeadStats
	Leads    model.LeadPage
	LeadsErr string
}

func (p leadsPage) ShowPagination() bool { return p.Leads.Pagination.Pages > 1 }

func (s *Server) leadsHandler(w http.ResponseWriter, r *http.Request) {
	pageNum, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || pageNum < 1 {
		pageNum = 1
	}
	ctx := r.Context()

	var (
		page     leadsPage
		stats    model.LeadStats
		statsErr error
		leadsErr error
	)
	// The two reads fail independently, so neither cancels the other.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, statsErr = s.backend.LeadStats(ctx)
	}()
	go func() {
		defer wg.Done()
		page.Leads, leadsErr = s.backend.ListLeads(ctx, pageNum, s.leadsPerPage)
	}()
	wg.Wait()

	if statsErr != nil {
		s.logger.Warn().Err(statsErr).Msg("load lead stats")
	} else {
		page.Stats = &stats
	}
	if leadsErr != nil {
		s.logger.Error().Err(leadsErr).Int("page", pageNum).Msg("list leads")
		page.LeadsErr = leadapi.UserMessage(leadsErr, "Failed to load leads")
	}

	data := s.newPageData(r, "Leads", "leads")
	data.Page = page
	s.render(w, http.StatusOK, "leads.html", data)
}
