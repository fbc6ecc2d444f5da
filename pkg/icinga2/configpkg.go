package icinga2

import (
	"context"
	"github.com/icinga/icinga2-api/internal"
	"github.com/pkg/errors"
)

// ConfigPackage is a configuration package with its stages.
type ConfigPackage struct {
	Name        string   `json:"name"`
	Stages      []string `json:"stages"`
	ActiveStage string   `json:"active-stage"`
}

// StageFile is an entry within a config stage.
type StageFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateConfigPackage creates an empty configuration package.
func (c *Client) CreateConfigPackage(ctx context.Context, name string) (*Result, error) {
	if name == "" {
		return nil, errors.Wrap(ErrValidation, "config package name missing")
	}

	return c.transport.Put(ctx, c.url("config/packages/%s", name), nil)
}

// ListConfigPackages lists all configuration packages with their stages.
func (c *Client) ListConfigPackages(ctx context.Context) ([]ConfigPackage, error) {
	res, err := c.transport.Get(ctx, c.url("config/packages"), nil)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't list config packages: %d %s", res.StatusCode, res.Status)
	}

	packages := make([]ConfigPackage, 0, len(res.Results))
	for _, raw := range res.Results {
		var pkg ConfigPackage
		if err := internal.UnmarshalJSON(raw, &pkg); err != nil {
			return nil, err
		}

		packages = append(packages, pkg)
	}

	return packages, nil
}

// DeleteConfigPackage removes a configuration package including its stages.
func (c *Client) DeleteConfigPackage(ctx context.Context, name string) (*Result, error) {
	if name == "" {
		return nil, errors.Wrap(ErrValidation, "config package name missing")
	}

	return c.transport.Delete(ctx, c.url("config/packages/%s", name), nil)
}

// UploadConfigStage uploads config files into a new stage of the given
// package. Files maps relative paths, e.g. "conf.d/hosts.conf", to their
// content. With reload, the server activates the stage by reloading.
func (c *Client) UploadConfigStage(ctx context.Context, pkg string, files map[string]string, reload bool) (*Result, error) {
	if pkg == "" {
		return nil, errors.Wrap(ErrValidation, "config package name missing")
	}
	if len(files) == 0 {
		return nil, errors.Wrap(ErrValidation, "config stage files missing")
	}

	payload := map[string]interface{}{
		"files":  files,
		"reload": reload,
	}

	return c.transport.Post(ctx, c.url("config/stages/%s", pkg), payload)
}

// ListConfigStages lists the stage names of a configuration package.
func (c *Client) ListConfigStages(ctx context.Context, pkg string) ([]string, error) {
	if pkg == "" {
		return nil, errors.Wrap(ErrValidation, "config package name missing")
	}

	packages, err := c.ListConfigPackages(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range packages {
		if p.Name == pkg {
			return p.Stages, nil
		}
	}

	return nil, errors.Errorf("config package %q does not exist", pkg)
}

// FetchConfigStageFiles lists the files of a config stage.
func (c *Client) FetchConfigStageFiles(ctx context.Context, pkg, stage string) ([]StageFile, error) {
	if pkg == "" || stage == "" {
		return nil, errors.Wrap(ErrValidation, "config package and stage required")
	}

	res, err := c.transport.Get(ctx, c.url("config/stages/%s/%s", pkg, stage), nil)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, errors.Errorf("can't list stage %s/%s: %d %s", pkg, stage, res.StatusCode, res.Status)
	}

	files := make([]StageFile, 0, len(res.Results))
	for _, raw := range res.Results {
		var file StageFile
		if err := internal.UnmarshalJSON(raw, &file); err != nil {
			return nil, err
		}

		files = append(files, file)
	}

	return files, nil
}

// FetchConfigStageFile fetches the content of a single stage file.
func (c *Client) FetchConfigStageFile(ctx context.Context, pkg, stage, path string) ([]byte, error) {
	if pkg == "" || stage == "" || path == "" {
		return nil, errors.Wrap(ErrValidation, "config package, stage and path required")
	}

	return c.transport.GetRaw(ctx, c.url("config/files/%s/%s/%s", pkg, stage, path))
}

// ConfigStageErrors fetches the startup log of a stage, which carries the
// validation errors of a failed reload.
func (c *Client) ConfigStageErrors(ctx context.Context, pkg, stage string) (string, error) {
	log, err := c.FetchConfigStageFile(ctx, pkg, stage, "startup.log")
	if err != nil {
		return "", err
	}

	return string(log), nil
}

// DeleteConfigStage removes a single stage of a configuration package.
func (c *Client) DeleteConfigStage(ctx context.Context, pkg, stage string) (*Result, error) {
	if pkg == "" || stage == "" {
		return nil, errors.Wrap(ErrValidation, "config package and stage required")
	}

	return c.transport.Delete(ctx, c.url("config/stages/%s/%s", pkg, stage), nil)
}
