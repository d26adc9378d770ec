package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lead-console/internal/leadapi"
	"lead-console/internal/model"
	"lead-console/internal/msgtemplate"
)

const (
	actionInsert    = "insert:"
	actionAddVar    = "add_var"
	actionRemoveVar = "remove_var:"
	actionPreview   = "preview"
	actionSuggest   = "suggest"
	actionSave      = "save"
)

type editorPage struct {
	HasAd      bool
	AdID       int64
	AdName     string
	Draft      *msgtemplate.Draft
	TemplateID string
	Fields     []msgtemplate.Binding
	CanSuggest bool
}

func (p editorPage) Heading() string {
	if p.Draft != nil && !p.Draft.IsNew() {
		return "Edit Message Template"
	}
	return "Create Message Template"
}

func parseAdID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("ad_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) newEditorPage(r *http.Request, adID int64) editorPage {
	page := editorPage{
		HasAd:      true,
		AdID:       adID,
		Fields:     msgtemplate.StandardFields(),
		CanSuggest: s.composer != nil,
	}
	if ad, err := s.backend.GetAd(r.Context(), adID); err != nil {
		s.logger.Warn().Err(err).Int64("ad_id", adID).Msg("load ad for editor")
	} else {
		page.AdName = ad.AdName
	}
	return page
}

func (p *editorPage) setDraft(d *msgtemplate.Draft) {
	p.Draft = d
	p.TemplateID = ""
	if id, ok := d.ID(); ok {
		p.TemplateID = strconv.FormatInt(id, 10)
	}
}

func (s *Server) editorHandler(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r, "Message Template", "ads")
	adID, ok := parseAdID(r)
	if !ok {
		data.Page = editorPage{}
		s.render(w, http.StatusOK, "editor.html", data)
		return
	}

	page := s.newEditorPage(r, adID)
	existing, err := s.backend.TemplateForAd(r.Context(), adID)
	switch {
	case err != nil:
		s.logger.Error().Err(err).Int64("ad_id", adID).Msg("load template")
		data.Error = "Error loading template: " + leadapi.UserMessage(err, "Failed to load template")
		page.setDraft(msgtemplate.NewDraft(adID))
	case existing != nil:
		page.setDraft(msgtemplate.LoadDraft(*existing))
	default:
		page.setDraft(msgtemplate.NewDraft(adID))
	}
	data.Page = page
	s.render(w, http.StatusOK, "editor.html", data)
}

func (s *Server) editorSubmitHandler(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r, "Message Template", "ads")
	adID, ok := parseAdID(r)
	if !ok {
		data.Page = editorPage{}
		s.render(w, http.StatusOK, "editor.html", data)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	page := s.newEditorPage(r, adID)
	d := draftFromForm(adID, r.PostForm)
	action := r.PostForm.Get("action")

	switch {
	case strings.HasPrefix(action, actionInsert):
		if name := strings.TrimPrefix(action, actionInsert); msgtemplate.IsStandardField(name) {
			d.InsertPlaceholder(name)
		}
	case action == actionAddVar:
		d.AppendVariable()
	case strings.HasPrefix(action, actionRemoveVar):
		if i, err := strconv.Atoi(strings.TrimPrefix(action, actionRemoveVar)); err == nil {
			d.RemoveVariable(i)
		}
	case action == actionSuggest:
		s.suggest(r, d, page.AdName, &data)
	case action == actionSave:
		wasNew := d.IsNew()
		saved, err := d.Save(r.Context(), s.backend)
		var verr *msgtemplate.ValidationError
		switch {
		case errors.As(err, &verr):
			data.Error = "Please fill in template name and message text"
		case err != nil:
			s.logger.Error().Err(err).Int64("ad_id", adID).Msg("save template")
			data.Error = leadapi.UserMessage(err, "Failed to save template")
		default:
			if wasNew {
				data.Notice = "Template created successfully!"
			} else {
				data.Notice = "Template updated successfully!"
			}
			s.logger.Info().Int64("ad_id", saved.AdID).Str("template", saved.TemplateName).Msg("template saved")
		}
	default:
		// preview: the draft already carries the recomputed preview
	}

	page.setDraft(d)
	data.Page = page
	s.render(w, http.StatusOK, "editor.html", data)
}

func (s *Server) suggest(r *http.Request, d *msgtemplate.Draft, adName string, data *pageData) {
	if s.composer == nil {
		data.Error = "Message suggestions are not configured"
		return
	}
	ad := model.Ad{ID: d.AdID(), AdName: adName}
	if full, err := s.backend.GetAd(r.Context(), d.AdID()); err == nil {
		ad = full
	}
	text, err := s.composer.ComposeMessage(r.Context(), ad, s.language)
	if err != nil {
		s.logger.Error().Err(err).Int64("ad_id", d.AdID()).Msg("compose message")
		data.Error = "Failed to suggest a message"
		return
	}
	d.SetMessageText(text)
	if d.TemplateName() == "" && adName != "" {
		d.SetTemplateName(adName + " welcome")
	}
}

// draftFromForm rebuilds the editor state posted by the form. Variable rows
// are replayed through the editor operations so blank and duplicate rows
// survive the round trip.
func draftFromForm(adID int64, form url.Values) *msgtemplate.Draft {
	t := model.MessageTemplate{
		AdID:         adID,
		TemplateName: form.Get("template_name"),
		MessageText:  form.Get("message_text"),
	}
	if id, err := strconv.ParseInt(form.Get("template_id"), 10, 64); err == nil && id > 0 {
		t.ID = &id
	}
	d := msgtemplate.LoadDraft(t)

	keys, values := form["var_key"], form["var_value"]
	for i := range keys {
		d.AppendVariable()
		d.UpdateVariable(i, msgtemplate.FieldKey, keys[i])
		if i < len(values) {
			d.UpdateVariable(i, msgtemplate.FieldValue, values[i])
		}
	}
	return d
}

type previewRequest struct {
	MessageText string                `json:"message_text"`
	Variables   []msgtemplate.Binding `json:"variables"`
}

type previewResponse struct {
	Preview    string   `json:"preview"`
	Unresolved []string `json:"unresolved"`
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	preview := msgtemplate.Render(req.MessageText, req.Variables)
	unresolved := msgtemplate.Placeholders(preview)
	if unresolved == nil {
		unresolved = []string{}
	}
	writeJSON(w, http.StatusOK, previewResponse{Preview: preview, Unresolved: unresolved})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
