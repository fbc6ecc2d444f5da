package icinga2

import "context"

// RestartProcess asks the monitored process to restart itself.
func (c *Client) RestartProcess(ctx context.Context) (*Result, error) {
	return c.transport.Post(ctx, c.url("actions/restart-process"), nil)
}

// ShutdownProcess asks the monitored process to shut down.
func (c *Client) ShutdownProcess(ctx context.Context) (*Result, error) {
	return c.transport.Post(ctx, c.url("actions/shutdown-process"), nil)
}
