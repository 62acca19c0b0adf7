package commands

import (
	"fmt"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/manifest"
	"git.home.luguber.info/inful/moxide/internal/project"
	"git.home.luguber.info/inful/moxide/internal/render"
)

// CreateCmd groups the scaffolding subcommands.
type CreateCmd struct {
	Project CreateProjectCmd `cmd:"" help:"Create a new project with a manifest and a seed page"`
	Page    CreatePageCmd    `cmd:"" help:"Create a page below src/ of an existing project"`
	Bundle  CreateBundleCmd  `cmd:"" help:"Create a bundle (not yet supported)"`
}

// CreateProjectCmd implements 'create project'.
type CreateProjectCmd struct {
	Name   string `short:"n" help:"Project name; also the directory name" required:""`
	Parent string `help:"Directory to create the project in" default:"."`
}

func (c *CreateProjectCmd) Run(g *Global, _ *CLI) error {
	p, err := project.Create(c.Parent, c.Name, time.Now())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Created project %q in %s\n", p.Manifest.Site, p.Base)
	return nil
}

// CreatePageCmd implements 'create page'.
type CreatePageCmd struct {
	Name    string `short:"n" help:"Page name; title-cased into the page title" required:""`
	Project string `short:"p" help:"Project directory holding the manifest" default:"."`
}

func (c *CreatePageCmd) Run(g *Global, _ *CLI) error {
	p, err := project.Load(filepath.Join(c.Project, manifest.DefaultFilename))
	if err != nil {
		return err
	}
	dir, err := p.CreatePage(c.Name, time.Now())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Created page %s\n", dir)
	return nil
}

// CreateBundleCmd implements 'create bundle'.
type CreateBundleCmd struct{}

func (c *CreateBundleCmd) Run(_ *Global, _ *CLI) error {
	return ferrors.WrapError(render.ErrBundleNotSupported, ferrors.CategoryValidation, "bundles are not yet supported").
		Build()
}
