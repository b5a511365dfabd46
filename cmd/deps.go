package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillsense/internal/analysis"
	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/coach"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/metrics"
	"github.com/abhisek/skillsense/internal/profile"
	"github.com/abhisek/skillsense/internal/recommend"
	"github.com/abhisek/skillsense/internal/store"
)

var errNoLLM = errors.New("no LLM provider configured: set GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY")

// deps holds the services shared by commands. Assessment and Coach are nil
// when no LLM provider is configured.
type deps struct {
	store      *store.Store
	catalog    *catalog.Catalog
	metrics    *metrics.Metrics
	profiles   *profile.Service
	analysis   *analysis.Service
	mapper     *recommend.Mapper
	assessment *assessment.Service
	coach      *coach.Service
}

func (d *deps) Close() error {
	return d.store.Close()
}

func (d *deps) requireAI() error {
	if d.assessment == nil || d.coach == nil {
		return errNoLLM
	}
	return nil
}

// loadCatalog returns the catalog named by --catalog, or the built-in one.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, bool, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		c, err := catalog.Builtin()
		return c, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read catalog: %w", err)
	}
	c, err := catalog.Parse(data)
	if err != nil {
		return nil, false, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, true, nil
}

// openDeps opens the store, seeds it when empty and builds every service.
func openDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, custom, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if custom {
		_, err = st.Seed(ctx, c)
	} else {
		err = st.EnsureSeeded(ctx)
	}
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	m := metrics.New()
	profiles := profile.NewService(st.ProfileRepo(), c)

	gc := appConfig.GapConfig()
	opts := []analysis.Option{
		analysis.WithLocal(gap.NewLocalScorer(gc)),
		analysis.WithMetrics(m),
	}
	if rc, ok := appConfig.RemoteScorer(); ok {
		opts = append(opts, analysis.WithRemote(gap.NewRemoteScorer(rc, gc)))
	}

	d := &deps{
		store:    st,
		catalog:  c,
		metrics:  m,
		profiles: profiles,
		analysis: analysis.NewService(st, analysis.DefaultConfig(), opts...),
		mapper:   recommend.NewMapper(st.ResourceRepo()),
	}
	profiles.OnChange(d.analysis.Forget)

	lc := appConfig.LLMConfig()
	if !lc.HasKey() {
		slog.Debug("LLM provider not configured, AI features disabled")
		return d, nil
	}
	gw, err := llm.NewGateway(ctx, lc, st.EventRepo())
	if err != nil {
		slog.Warn("LLM provider unavailable, AI features disabled", "provider", lc.Provider, "error", err)
		return d, nil
	}

	d.assessment = assessment.NewService(gw.For(llm.TierFast), st.AssessmentRepo(), profiles, assessment.DefaultConfig())
	d.assessment.SetMetrics(m)
	d.coach = coach.NewService(gw, profiles, c, coach.DefaultConfig())
	d.coach.SetMetrics(m)
	return d, nil
}

// resultFor reuses a fresh analysis for the role, or runs a new one.
func (d *deps) resultFor(ctx context.Context, userID, roleID string) (gap.Result, error) {
	if res, ok := d.analysis.Recent(userID, roleID); ok {
		return res, nil
	}
	return d.analysis.Analyze(ctx, userID, roleID)
}

// latestOrFor resolves an optional role argument to an analysis result.
func (d *deps) latestOrFor(ctx context.Context, userID string, args []string) (gap.Result, error) {
	if len(args) > 0 {
		return d.resultFor(ctx, userID, args[0])
	}
	res, ok, err := d.analysis.Latest(ctx, userID)
	if err != nil {
		return gap.Result{}, err
	}
	if !ok {
		return gap.Result{}, errors.New("no analysis yet: run `skillsense analyze <role>` first")
	}
	return res, nil
}
