package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

// pageFlags maps command flags onto the query keys pages read, so a
// terminal filter and a console URL mean the same thing.
type pageFlags struct {
	watch    bool
	interval time.Duration
	query    map[string]*string
}

func (a *app) bindPageFlags(cmd *cobra.Command, query map[string]string) *pageFlags {
	pf := &pageFlags{query: make(map[string]*string, len(query))}
	cmd.Flags().BoolVarP(&pf.watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().DurationVar(&pf.interval, "interval", a.cfg.PollInterval, "refresh interval with --watch")
	for flag, key := range query {
		v := new(string)
		cmd.Flags().StringVar(v, flag, "", "filter by "+key)
		pf.query[key] = v
	}
	return pf
}

func (pf *pageFlags) params() service.Params {
	q := url.Values{}
	for key, v := range pf.query {
		if *v != "" {
			q.Set(key, *v)
		}
	}
	return service.ParamsFromQuery(q)
}

// pageCmd is a read-only page of role's dashboard.
func (a *app) pageCmd(use, short string, role domain.Role, page string, query map[string]string) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, Args: cobra.NoArgs}
	pf := a.bindPageFlags(cmd, query)
	cmd.RunE = a.guarded(role, func(ctx context.Context, _ *cobra.Command, _ []string) error {
		return a.showPage(ctx, role, page, pf)
	})
	return cmd
}

// rolePageCmd is a page both roles have, served from the caller's subtree.
func (a *app) rolePageCmd(use, short, page string, query map[string]string) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, Args: cobra.NoArgs}
	pf := a.bindPageFlags(cmd, query)
	cmd.RunE = a.signedIn(func(ctx context.Context, user domain.User, _ *cobra.Command, _ []string) error {
		return a.showPage(ctx, user.Role, page, pf)
	})
	return cmd
}

func (a *app) showPage(ctx context.Context, role domain.Role, name string, pf *pageFlags) error {
	page, ok := a.pages.Lookup(role, name)
	if !ok {
		return fmt.Errorf("%w: %s%s", domain.ErrUnknownPage, role.Prefix(), "/"+name)
	}
	params := pf.params()
	backend := a.handle.Backend

	if !pf.watch {
		v, err := page.Load(ctx, backend, params)
		if err != nil {
			return err
		}
		return a.render(v)
	}

	poller := service.NewPoller[any](page.Key(), pf.interval, func(ctx context.Context) (any, error) {
		return page.Load(ctx, backend, params)
	}, a.log)
	snaps, unsubscribe := poller.Subscribe()
	poller.Start(ctx)
	defer poller.Stop()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			if err := a.renderSnapshot(page.Key(), snap); err != nil {
				return err
			}
		}
	}
}

func (a *app) renderSnapshot(key string, snap service.Snapshot[any]) error {
	if snap.Err != nil {
		if errors.Is(snap.Err, domain.ErrUnauthorized) {
			return errSessionExpired
		}
		msg := explain(snap.Err).Error()
		if snap.Loaded {
			fmt.Fprintf(a.errOut, "refresh failed: %s (showing data from %s)\n", msg, snap.UpdatedAt.Local().Format(time.TimeOnly))
		} else {
			fmt.Fprintf(a.errOut, "refresh failed: %s\n", msg)
		}
		return nil
	}
	if a.output != "json" {
		fmt.Fprintf(a.out, "== %s  #%d  %s ==\n", key, snap.Generation, snap.UpdatedAt.Local().Format(time.TimeOnly))
	}
	return a.render(snap.Data)
}

func (a *app) dashboardCmd() *cobra.Command {
	return a.rolePageCmd("dashboard", "Show your dashboard", domain.DashboardPage, nil)
}

func (a *app) monitoringCmd() *cobra.Command {
	return a.pageCmd("monitoring", "Show system health", domain.RoleAdmin, "monitoring", nil)
}

func (a *app) detectionsCmd() *cobra.Command {
	return a.rolePageCmd("detections", "List recent detections", "detections", map[string]string{
		"type":        "type",
		"alert-level": "alert_level",
		"camera":      "camera",
		"verified":    "verified",
		"search":      "q",
		"object-type": "object_type",
		"limit":       "limit",
		"offset":      "offset",
	})
}

func (a *app) alertsCmd() *cobra.Command {
	return a.pageCmd("alerts", "List alerts for your area", domain.RoleUser, "alerts", map[string]string{
		"severity": "severity",
		"days":     "days",
	})
}

func (a *app) activityCmd() *cobra.Command {
	return a.pageCmd("activity", "Show your activity timeline", domain.RoleUser, "activity", map[string]string{
		"days": "days",
	})
}
