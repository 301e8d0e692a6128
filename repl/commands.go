package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/drpcorg/dedupe/dedupe_errors"
	"github.com/drpcorg/dedupe/synced"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var HelpUpsert = errors.New("upsert [id] serial")
var HelpRemove = errors.New("remove id [id...]")
var HelpRoot = errors.New("root id")
var HelpGroup = errors.New("group serial")
var HelpRep = errors.New("rep serial")
var HelpMetrics = errors.New("metrics 127.0.0.1:9100")

var ErrMetricsRunning = errors.New("metrics endpoint already running")

func (repl *REPL) host() (*synced.Index[string, string], error) {
	if repl.Host == nil {
		return nil, dedupe_errors.ErrClosed
	}
	return repl.Host, nil
}

func (repl *REPL) CommandHelp(args []string) error {
	for _, h := range []error{HelpUpsert, HelpRemove, HelpRoot, HelpGroup, HelpRep, HelpMetrics} {
		_, _ = fmt.Fprintln(repl.out, h.Error())
	}
	_, _ = fmt.Fprintln(repl.out, "apply | rebuild | stat | close | exit")
	return nil
}

func (repl *REPL) CommandUpsert(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	var id, serial string
	switch len(args) {
	case 1:
		id, serial = uuid.NewString(), args[0]
	case 2:
		id, serial = args[0], args[1]
	default:
		return HelpUpsert
	}
	host.Upsert(id, serial)
	_, _ = fmt.Fprintf(repl.out, "queued add %s %s\n", id, serial)
	return nil
}

func (repl *REPL) CommandRemove(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return HelpRemove
	}
	for _, id := range args {
		host.Remove(id)
	}
	_, _ = fmt.Fprintf(repl.out, "queued delete %s\n", strings.Join(args, " "))
	return nil
}

func (repl *REPL) CommandApply(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	_, _, pending := host.Stats()
	host.ApplyPending()
	items, groups, _ := host.Stats()
	_, _ = fmt.Fprintf(repl.out, "applied %d changes: %d items in %d groups\n", pending, items, groups)
	return nil
}

func (repl *REPL) CommandRebuild(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	host.Rebuild()
	items, groups, _ := host.Stats()
	_, _ = fmt.Fprintf(repl.out, "rebuilt: %d items in %d groups\n", items, groups)
	return nil
}

func (repl *REPL) CommandRoot(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return HelpRoot
	}
	_, _ = fmt.Fprintf(repl.out, "%t\n", host.IsRepresentative(args[0]))
	return nil
}

func (repl *REPL) CommandGroup(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return HelpGroup
	}
	g, ok := host.GroupFor(args[0])
	if !ok {
		_, _ = fmt.Fprintf(repl.out, "no group %s\n", args[0])
		return nil
	}
	_, _ = fmt.Fprintf(repl.out, "*%s", g.Representative)
	for _, m := range g.Members {
		_, _ = fmt.Fprintf(repl.out, " %s", m)
	}
	_, _ = fmt.Fprintln(repl.out)
	return nil
}

func (repl *REPL) CommandRep(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return HelpRep
	}
	id, ok := host.RepresentativeOf(args[0])
	if !ok {
		_, _ = fmt.Fprintf(repl.out, "no group %s\n", args[0])
		return nil
	}
	_, _ = fmt.Fprintln(repl.out, id)
	return nil
}

func (repl *REPL) CommandStat(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	items, groups, pending := host.Stats()
	_, _ = fmt.Fprintf(repl.out, "items %d groups %d pending %d\n", items, groups, pending)
	return nil
}

func (repl *REPL) CommandMetrics(args []string) error {
	if len(args) != 1 {
		return HelpMetrics
	}
	if repl.srv != nil {
		return ErrMetricsRunning
	}
	l, err := net.Listen("tcp", args[0])
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(repl.reg, promhttp.HandlerOpts{}))
	repl.srv = &http.Server{Handler: mux}
	go func(srv *http.Server) {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			repl.log.Error("metrics server stopped", "addr", l.Addr().String(), "err", err)
		}
	}(repl.srv)
	_, _ = fmt.Fprintf(repl.out, "serving metrics on http://%s/metrics\n", l.Addr().String())
	return nil
}

func (repl *REPL) CommandClose(args []string) error {
	host, err := repl.host()
	if err != nil {
		return err
	}
	err = host.Close()
	repl.Host = nil
	if err == nil {
		_, _ = fmt.Fprintln(repl.out, "index closed")
	}
	return err
}
