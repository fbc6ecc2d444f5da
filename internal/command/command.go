package command

import (
	"fmt"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/internal/config"
	"github.com/icinga/icinga2-api/pkg/icinga2"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/icinga/icinga2-api/pkg/mq"
	"github.com/pkg/errors"
	"os"
)

// Command provides factories for the API client and the queue from Config.
type Command struct {
	Flags  *config.Flags
	Config *config.Config
	Logs   *logging.Logging
	Logger *logging.Logger
}

// New parses CLI flags and the YAML config and initializes the logging
// registry. It exits the process on --version and on startup errors.
func New(product string) *Command {
	flags, err := config.ParseFlags()
	if err != nil {
		os.Exit(2)
	}

	if flags.Version {
		internal.Version.Print(product)
		os.Exit(0)
	}

	cfg, err := config.FromYAMLFile(flags.GetConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}

	logs, err := logging.NewLoggingFromConfig(product, cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", errors.Wrap(err, "can't configure logging"))
		os.Exit(1)
	}

	return &Command{
		Flags:  flags,
		Config: cfg,
		Logs:   logs,
		Logger: logs.GetLogger(),
	}
}

// Client creates and returns a new icinga2.Client from Config.
func (c *Command) Client() *icinga2.Client {
	client, err := icinga2.NewClientFromConfig(&c.Config.Api, c.Logs.GetChildLogger("icinga2"))
	if err != nil {
		c.Logger.Fatalf("%+v", errors.Wrap(err, "can't create API client from config"))
	}

	return client
}

// Queue creates and returns a new mq.Queue from Config.
func (c *Command) Queue() *mq.Queue {
	queue, err := mq.NewQueueFromConfig(&c.Config.MQ, c.Logs.GetChildLogger("mq"))
	if err != nil {
		c.Logger.Fatalf("%+v", errors.Wrap(err, "can't create queue from config"))
	}

	return queue
}
