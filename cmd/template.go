package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lead-console/internal/model"
	"lead-console/internal/msgtemplate"
	"lead-console/internal/querycache"
	"lead-console/internal/tmplfile"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Edit the message template of an ad",
}

var (
	tplName       string
	tplText       string
	tplVars       []string
	tplLead       []string
	tplRemote     bool
	tplSuggestSet bool
)

// templateCommand loads the template for the ad named by args[0] and hands
// it to fn. existing is nil when the ad has no template yet.
func templateCommand(fn func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		adID, err := parseID(args[0], "ad id")
		if err != nil {
			return err
		}
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), 2*time.Minute)
		defer cancel()

		existing, err := a.cache.TemplateForAd(ctx, adID)
		if err != nil {
			return userError(err, "Error loading template")
		}
		return fn(ctx, cmd, a, adID, existing)
	}
}

var templateShowCmd = &cobra.Command{
	Use:   "show <ad_id>",
	Short: "Print the template, its variables and a sample preview",
	Args:  cobra.ExactArgs(1),
	RunE: templateCommand(func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error {
		out := cmd.OutOrStdout()
		if existing == nil {
			fmt.Fprintf(out, "Ad %d has no template yet. Create one with: template save %d --name ... --text ...\n", adID, adID)
			return nil
		}
		d := msgtemplate.LoadDraft(*existing)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		if id, ok := d.ID(); ok {
			fmt.Fprintf(tw, "Template:\t#%d %s\n", id, d.TemplateName())
		}
		fmt.Fprintf(tw, "Ad:\t%d\n", adID)
		for _, v := range d.Variables() {
			fmt.Fprintf(tw, "  %s\t%s\n", msgtemplate.Token(v.Key), v.Value)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nMessage:\n%s\n", d.MessageText())
		writePreview(out, d)
		return nil
	}),
}

var templatePreviewCmd = &cobra.Command{
	Use:   "preview <ad_id>",
	Short: "Render the template with sample lead data",
	Args:  cobra.ExactArgs(1),
	RunE: templateCommand(func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error {
		if existing == nil {
			return fmt.Errorf("ad %d has no template", adID)
		}
		out := cmd.OutOrStdout()
		if !tplRemote {
			writePreview(out, msgtemplate.LoadDraft(*existing))
			return nil
		}
		if existing.ID == nil {
			return errors.New("template has no id")
		}
		leadData, err := sampleLeadData(tplLead)
		if err != nil {
			return err
		}
		p, err := a.cache.PreviewTemplate(ctx, *existing.ID, leadData)
		if err != nil {
			return userError(err, "Failed to preview template")
		}
		fmt.Fprintf(out, "Preview:\n%s\n", p.Preview)
		if len(p.Placeholders) > 0 {
			fmt.Fprintf(out, "Placeholders: %s\n", strings.Join(p.Placeholders, ", "))
		}
		return nil
	}),
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <ad_id>",
	Short: "Create or update the template of an ad",
	Long: "Create or update the template of an ad. Flags that are not given keep the\n" +
		"stored value; --var replaces the whole variable list and may be repeated.",
	Args: cobra.ExactArgs(1),
	RunE: templateCommand(func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error {
		d := msgtemplate.NewDraft(adID)
		if existing != nil {
			d = msgtemplate.LoadDraft(*existing)
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			d.SetTemplateName(tplName)
		}
		if flags.Changed("text") {
			d.SetMessageText(tplText)
		}
		if flags.Changed("var") {
			bindings, err := parseAssignments(tplVars)
			if err != nil {
				return err
			}
			replaceVariables(d, bindings)
		}
		return saveDraft(ctx, cmd.OutOrStdout(), a.cache, d)
	}),
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <ad_id>",
	Short: "Delete the template of an ad",
	Args:  cobra.ExactArgs(1),
	RunE: templateCommand(func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error {
		if existing == nil || existing.ID == nil {
			return fmt.Errorf("ad %d has no template", adID)
		}
		if err := a.cache.DeleteTemplate(ctx, *existing.ID); err != nil {
			return userError(err, "Failed to delete template")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted template #%d of ad %d\n", *existing.ID, adID)
		return nil
	}),
}

var templateExportCmd = &cobra.Command{
	Use:   "export <ad_id> [file]",
	Short: "Write the template as a markdown file with YAML frontmatter",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return templateCommand(func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error {
			if existing == nil {
				return fmt.Errorf("ad %d has no template", adID)
			}
			if len(args) == 1 {
				return tmplfile.Write(cmd.OutOrStdout(), *existing)
			}
			if err := tmplfile.WriteFile(args[1], *existing); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		})(cmd, args)
	},
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create or update a template from a markdown file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := tmplfile.Parse(args[0])
		if err != nil {
			return err
		}
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), 2*time.Minute)
		defer cancel()

		// The ad's current template decides between create and update; an id
		// in the file is only informational.
		existing, err := a.cache.TemplateForAd(ctx, t.AdID)
		if err != nil {
			return userError(err, "Error loading template")
		}
		t.ID = nil
		if existing != nil {
			t.ID = existing.ID
		}
		return saveDraft(ctx, cmd.OutOrStdout(), a.cache, msgtemplate.LoadDraft(t))
	},
}

var templateSuggestCmd = &cobra.Command{
	Use:   "suggest <ad_id>",
	Short: "Draft message text for an ad with OpenAI",
	Args:  cobra.ExactArgs(1),
	RunE: templateCommand(func(ctx context.Context, cmd *cobra.Command, a *app, adID int64, existing *model.MessageTemplate) error {
		cfg := GetConfig()
		composer, err := newComposer(cfg, logger)
		if err != nil {
			return err
		}
		if composer == nil {
			return errors.New("openai.api_key is not configured")
		}
		ad, err := a.cache.GetAd(ctx, adID)
		if err != nil {
			return userError(err, "Error loading ad")
		}
		text, err := composer.ComposeMessage(ctx, ad, cfg.OpenAI.Language)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !tplSuggestSet {
			fmt.Fprintln(out, text)
			return nil
		}

		d := msgtemplate.NewDraft(adID)
		if existing != nil {
			d = msgtemplate.LoadDraft(*existing)
		}
		d.SetMessageText(text)
		if d.TemplateName() == "" {
			d.SetTemplateName(ad.AdName + " welcome")
		}
		return saveDraft(ctx, out, a.cache, d)
	}),
}

func saveDraft(ctx context.Context, out io.Writer, c *querycache.Client, d *msgtemplate.Draft) error {
	wasNew := d.IsNew()
	_, err := d.Save(ctx, c)
	var verr *msgtemplate.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("please fill in template name and message text (missing %s)", strings.Join(verr.Missing, ", "))
	case err != nil:
		return userError(err, "Failed to save template")
	}
	if wasNew {
		fmt.Fprintln(out, "Template created successfully!")
	} else {
		fmt.Fprintln(out, "Template updated successfully!")
	}
	writePreview(out, d)
	return nil
}

func writePreview(out io.Writer, d *msgtemplate.Draft) {
	fmt.Fprintf(out, "\nPreview:\n%s\n", d.Preview())
	if u := d.Unresolved(); len(u) > 0 {
		tokens := make([]string, len(u))
		for i, name := range u {
			tokens[i] = msgtemplate.Token(name)
		}
		fmt.Fprintf(out, "Unresolved: %s\n", strings.Join(tokens, " "))
	}
}

// parseAssignments turns key=value flags into bindings, keeping their order.
func parseAssignments(items []string) ([]msgtemplate.Binding, error) {
	out := make([]msgtemplate.Binding, 0, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid variable %q, want key=value", item)
		}
		out = append(out, msgtemplate.Binding{Key: k, Value: v})
	}
	return out, nil
}

func replaceVariables(d *msgtemplate.Draft, bindings []msgtemplate.Binding) {
	for len(d.Variables()) > 0 {
		d.RemoveVariable(0)
	}
	for i, b := range bindings {
		d.AppendVariable()
		d.UpdateVariable(i, msgtemplate.FieldKey, b.Key)
		d.UpdateVariable(i, msgtemplate.FieldValue, b.Value)
	}
}

// sampleLeadData starts from the standard sample values and applies
// overrides.
func sampleLeadData(overrides []string) (map[string]string, error) {
	data := map[string]string{}
	for _, f := range msgtemplate.StandardFields() {
		data[f.Key] = f.Value
	}
	extra, err := parseAssignments(overrides)
	if err != nil {
		return nil, err
	}
	for _, b := range extra {
		data[b.Key] = b.Value
	}
	return data, nil
}

func init() {
	templateSaveCmd.Flags().StringVar(&tplName, "name", "", "template name")
	templateSaveCmd.Flags().StringVar(&tplText, "text", "", "message text with {{placeholders}}")
	templateSaveCmd.Flags().StringArrayVar(&tplVars, "var", nil, "custom variable as key=value (repeatable)")
	templatePreviewCmd.Flags().BoolVar(&tplRemote, "remote", false, "render on the API server instead of locally")
	templatePreviewCmd.Flags().StringArrayVar(&tplLead, "lead", nil, "lead field override as key=value for --remote (repeatable)")
	templateSuggestCmd.Flags().BoolVar(&tplSuggestSet, "save", false, "store the suggestion as the ad's message text")

	templateCmd.AddCommand(
		templateShowCmd,
		templatePreviewCmd,
		templateSaveCmd,
		templateDeleteCmd,
		templateExportCmd,
		templateImportCmd,
		templateSuggestCmd,
	)
	rootCmd.AddCommand(templateCmd)
}
