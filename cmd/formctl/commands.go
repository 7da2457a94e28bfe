package main

import (
	"context"
	"errors"
	"fmt"
	"formflow/cmd/formctl/wire"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
	"formflow/internal/forms/watch"
	"formflow/internal/infra/httpserver"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// formIDArg parses flags and returns the single positional form id.
func formIDArg(fs *pflag.FlagSet, args []string) (domain.ID, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return "", fmt.Errorf("expected exactly one form id, got %d arguments", fs.NArg())
	}
	return domain.ID(strings.TrimSpace(fs.Arg(0))), nil
}

func runList(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error {
	fs := newFlagSet("list")
	limit := fs.Int("limit", services.Config.Forms.ListLimit, "maximum number of forms to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := services.Directory.Load(ctx, *limit)
	switch view.State {
	case usecases.DirectoryFailed:
		return errors.New(view.Error)
	case usecases.DirectoryEmpty:
		fmt.Fprintln(stdout, "No forms yet.")
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFIELDS\tCREATED")
	for _, f := range view.Forms {
		created := "-"
		if f.CreatedAt != nil {
			created = f.CreatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.ID, f.Title, len(f.Fields), created)
	}
	return tw.Flush()
}

func runLinks(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error {
	fs := newFlagSet("links")
	limit := fs.Int("limit", services.Config.Forms.ListLimit, "maximum number of forms to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	forms, err := services.Directory.ListForms(ctx, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, link := range usecases.AnalyticsLinks(forms) {
		fmt.Fprintf(tw, "%s\t%s\n", link.Name, link.Path)
	}
	return tw.Flush()
}

func runShow(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error {
	id, err := formIDArg(newFlagSet("show"), args)
	if err != nil {
		return err
	}

	form, err := services.Catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s (%s)\n", form.Title, form.ID)
	for i, f := range form.Fields {
		marker := ""
		if f.Required {
			marker = " *"
		}
		fmt.Fprintf(stdout, "%d. %s%s [%s] id=%s\n", i+1, f.Label, marker, f.Type, f.ID)
		switch {
		case f.Type.HasOptions():
			for _, o := range f.Options {
				fmt.Fprintf(stdout, "   - %s (%s)\n", o.Label, o.ID)
			}
		case f.Type == domain.FieldTypeRating:
			lo, hi := f.RatingBounds()
			fmt.Fprintf(stdout, "   scale %d..%d\n", lo, hi)
		case f.Placeholder != nil:
			fmt.Fprintf(stdout, "   placeholder: %s\n", *f.Placeholder)
		}
	}
	return nil
}

func runCreate(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error {
	fs := newFlagSet("create")
	file := fs.StringP("file", "f", "", "YAML form definition, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("--file is required")
	}

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	def, err := ParseDefinition(in)
	if err != nil {
		return err
	}

	builder, err := wire.InitializeFormBuilder(nil)
	if err != nil {
		return err
	}
	if err := def.Apply(builder); err != nil {
		return err
	}

	saved, err := builder.Save(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "created form %s (%d fields)\n", saved.ID, len(saved.Fields))
	return nil
}

func runRespond(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error {
	fs := newFlagSet("respond")
	answers := fs.StringArrayP("answer", "a", nil, "answer as <field id or label>=<value>; repeatable")
	id, err := formIDArg(fs, args)
	if err != nil {
		return err
	}

	renderer, err := usecases.LoadRenderer(ctx, services.Catalog, id, services.API, services.Log)
	if err != nil {
		return err
	}

	form := renderer.Form()
	for _, raw := range *answers {
		field, value, err := ParseAnswerFlag(form, raw)
		if err != nil {
			return err
		}
		answer, err := ParseAnswer(field, value)
		if err != nil {
			return err
		}
		if err := renderer.SetAnswer(field.ID, answer); err != nil {
			return err
		}
	}

	if !renderer.CanSubmit() {
		for _, problem := range renderer.Problems() {
			fmt.Fprintf(stdout, "%s\n", problem.Error())
		}
		return usecases.ErrNotSubmittable
	}

	message, err := renderer.Submit(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, message)
	return nil
}

func runWatch(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error {
	fs := newFlagSet("watch")
	metricsAddr := fs.String("metrics-addr", "", "serve /metrics, /healthz and /snapshot on this address")
	once := fs.Bool("once", false, "exit after the first snapshot")
	id, err := formIDArg(fs, args)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	observer, err := watch.NewPrometheusObserver(registry, services.Log)
	if err != nil {
		return err
	}

	view, err := wire.InitializeLiveView(id, observer)
	if err != nil {
		return err
	}

	if *metricsAddr != "" {
		server := httpserver.NewServer(*metricsAddr, registry, services.Log, snapshotController(view))
		go func() {
			if err := server.Run(); err != nil {
				services.Log.Errorw("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	if err := view.Activate(ctx); err != nil {
		return err
	}
	defer view.Deactivate()

	streamDone := view.StreamDone()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-view.Updates():
			fmt.Fprintf(stdout, "--- %s (%s)\n", time.Now().Format(time.TimeOnly), view.LastSource())
			if err := watch.Render(stdout, snapshot); err != nil {
				return err
			}
			if *once {
				return nil
			}
		case <-streamDone:
			streamDone = nil
			if err := view.StreamErr(); err != nil {
				services.Log.Warnw("live updates stopped", "form_id", id, "error", err)
			}
			if _, ok := view.Snapshot(); !ok && view.Err() != nil {
				return view.Err()
			}
		}
	}
}

func snapshotController(view *usecases.LiveView) httpserver.Controller {
	return httpserver.ControllerFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("GET /snapshot", func(w http.ResponseWriter, r *http.Request) {
			snapshot, ok := view.Snapshot()
			if !ok {
				httpserver.ReplyWithError(w, http.StatusNotFound, "no snapshot received yet")
				return
			}
			httpserver.ReplyJSONResponse(w, http.StatusOK, snapshot)
		})
	})
}
