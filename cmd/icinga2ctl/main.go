package main

import (
	"context"
	"fmt"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/internal/config"
	"github.com/icinga/icinga2-api/pkg/icinga2"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"os"
	"time"
)

type options struct {
	Version bool   `long:"version" description:"print version and exit"`
	Config  string `short:"c" long:"config" description:"path to config file (default: /etc/icinga2-api/config.yml)"`

	Max      int           `long:"max" default:"10" description:"limit for top problem listings"`
	Cascade  bool          `long:"cascade" description:"delete dependent objects too"`
	Address  string        `long:"address" description:"host address (add-host)"`
	Author   string        `long:"author" description:"downtime author"`
	Comment  string        `long:"comment" description:"downtime comment"`
	Duration time.Duration `long:"duration" default:"2h" description:"downtime length"`

	Args struct {
		Command string `positional-arg-name:"command" description:"status | problems | top-hosts | top-services | unhandled | add-host | remove-host | downtime"`
		Name    string `positional-arg-name:"name"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}

	if opts.Version {
		internal.Version.Print("icinga2ctl")
		os.Exit(0)
	}

	path := opts.Config
	if path == "" {
		path = config.DefaultConfigPath
	}

	cfg, err := config.FromYAMLFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}

	logs, err := logging.NewLoggingFromConfig("icinga2ctl", cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", errors.Wrap(err, "can't configure logging"))
		os.Exit(1)
	}
	logger := logs.GetLogger()
	defer logger.Sync()

	client, err := icinga2.NewClientFromConfig(&cfg.Api, logs.GetChildLogger("icinga2"))
	if err != nil {
		logger.Fatals(errors.Wrap(err, "can't create API client from config"))
	}

	if err := run(context.Background(), client, &opts); err != nil {
		logger.Fatals(err)
	}
}

func run(ctx context.Context, client *icinga2.Client, opts *options) error {
	switch opts.Args.Command {
	case "status":
		return status(ctx, client)
	case "problems":
		return problems(ctx, client)
	case "top-hosts":
		return top(ctx, client, true, opts.Max)
	case "top-services":
		return top(ctx, client, false, opts.Max)
	case "unhandled":
		return unhandled(ctx, client)
	case "add-host":
		res, err := client.AddHost(ctx, &icinga2.HostSpec{Name: opts.Args.Name, Address: opts.Address})
		return report(res, err)
	case "remove-host":
		res, err := client.DeleteHost(ctx, opts.Args.Name, opts.Cascade)
		return report(res, err)
	case "downtime":
		now := time.Now()
		res, err := client.ScheduleDowntime(ctx, &icinga2.DowntimeSpec{
			Host:      opts.Args.Name,
			Author:    opts.Author,
			Comment:   opts.Comment,
			Type:      icinga2.DowntimeFixed,
			StartTime: now,
			EndTime:   now.Add(opts.Duration),
		})
		return report(res, err)
	case "":
		return errors.New("command missing, see --help")
	default:
		return errors.Errorf("unknown command %q", opts.Args.Command)
	}
}

func status(ctx context.Context, client *icinga2.Client) error {
	app, err := client.ApplicationData(ctx)
	if err != nil {
		return err
	}
	uptime, err := client.Uptime(ctx)
	if err != nil {
		return err
	}
	cib, err := client.CIBData(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s (revision %s) on %s, up %s\n", app.Version, app.Revision, app.NodeName, uptime.Round(time.Second))
	fmt.Printf("hosts: %d up, %d down, %d in downtime, %d acknowledged\n",
		cib.NumHostsUp.Int(), cib.NumHostsDown.Int(), cib.NumHostsInDowntime.Int(), cib.NumHostsAcknowledged.Int())
	fmt.Printf("services: %d ok, %d warning, %d critical, %d unknown\n",
		cib.NumServicesOk.Int(), cib.NumServicesWarning.Int(), cib.NumServicesCritical.Int(), cib.NumServicesUnknown.Int())

	return nil
}

func problems(ctx context.Context, client *icinga2.Client) error {
	hosts, err := client.HostProblemsAdjusted(ctx)
	if err != nil {
		return err
	}
	services, err := client.ServiceProblemsAdjusted(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("hosts down: %d raw, %d handled, %d adjusted\n", hosts.Down, hosts.HandledDown, hosts.AdjustedDown)
	fmt.Printf("services warning: %d raw, %d adjusted\n", services.Warning, services.AdjustedWarning)
	fmt.Printf("services critical: %d raw, %d adjusted\n", services.Critical, services.AdjustedCritical)
	fmt.Printf("services unknown: %d raw, %d adjusted\n", services.Unknown, services.AdjustedUnknown)

	return nil
}

func top(ctx context.Context, client *icinga2.Client, hosts bool, max int) error {
	var (
		names      []string
		severities map[string]int
		err        error
	)
	if hosts {
		names, severities, err = client.TopHostProblems(ctx, max)
	} else {
		names, severities, err = client.TopServiceProblems(ctx, max)
	}
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Printf("%6d  %s\n", severities[name], name)
	}

	return nil
}

func unhandled(ctx context.Context, client *icinga2.Client) error {
	services, err := client.UnhandledServices(ctx)
	if err != nil {
		return err
	}

	for _, svc := range services {
		fmt.Println(svc.Name)
	}

	return nil
}

// report prints the API outcome of a mutation.
func report(res *icinga2.Result, err error) error {
	if err != nil {
		return err
	}

	fmt.Printf("%d %s\n", res.StatusCode, res.Status)
	for _, e := range res.Errors {
		fmt.Println(e)
	}

	return nil
}
