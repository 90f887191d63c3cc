package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"setcore/internal/blob"
	blobcore "setcore/internal/blob/core"
	"setcore/internal/config"
	"setcore/internal/core"
	"setcore/internal/infra/blob/fs"
	blobmem "setcore/internal/infra/blob/memory"
	s3blob "setcore/internal/infra/blob/s3"
	"setcore/internal/infra/persistence/memory"
	"setcore/internal/infra/persistence/postgres"
	"setcore/internal/infra/persistence/sqlite"
	"setcore/pkg/domain"
)

// Runner holds CLI dependencies and provides a method per command action.
type Runner struct {
	logger *log.Logger
	output io.Writer
}

// RunnerOpts configures a Runner.
type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{logger: opts.Logger, output: opts.Output}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		initCommand(r),
		orgCommand(r),
		memberCommand(r),
		sectionTypeCommand(r),
		songCommand(r),
		resourceCommand(r),
		setCommand(r),
	}
}

// loadConfig reads the --config file, falling back to embedded defaults when
// the file does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) *config.Config {
	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		r.logger.Warn("falling back to default config", "path", path, "error", err)
		return config.Default()
	}
	return cfg
}

func openStore(cfg *config.Config) (domain.PersistentStore, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.NewStore(nil), nil
	case "sqlite":
		return sqlite.NewStore(cfg.Storage.Path, nil)
	case "postgres":
		return postgres.NewStore(cfg.Storage.DSN, nil)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Storage.Driver)
	}
}

func openBlob(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.Blob.Driver {
	case "":
		return blob.Open(ctx)
	case "fs":
		return fs.New(cfg.Blob.Root)
	case "s3":
		return s3blob.New(ctx, s3blob.Config{
			Bucket:    cfg.Blob.Bucket,
			Region:    cfg.Blob.Region,
			Endpoint:  cfg.Blob.Endpoint,
			PathStyle: cfg.Blob.PathStyle,
		})
	case "memory":
		return blobmem.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Blob.Driver)
	}
}

// service builds the core service for one command invocation.
func (r *Runner) service(ctx context.Context, cmd *cli.Command) (*core.Service, error) {
	cfg := r.loadConfig(cmd)
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		r.logger.SetLevel(level)
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	var blobs blobcore.Store
	if blobs, err = openBlob(ctx, cfg); err != nil {
		return nil, err
	}
	return core.NewService(store,
		core.WithLogger(r.logger),
		core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("setcore_cli")),
		core.WithBlobStore(blobs),
	), nil
}

// scope authorizes the caller from --user and --org flags.
func (r *Runner) scope(ctx context.Context, cmd *cli.Command, svc *core.Service) (core.Scope, error) {
	return svc.Authorize(ctx, cmd.String("user"), cmd.String("org"))
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Runner) initConfig(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := config.WriteExample(path); err != nil {
		return err
	}
	r.logger.Info("wrote starter config", "path", path)
	return nil
}

func (r *Runner) orgCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	org, _, err := svc.CreateOrganization(ctx, cmd.String("name"))
	if err != nil {
		return err
	}
	return r.writeJSON(org)
}

func (r *Runner) orgList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	return r.writeJSON(svc.Store().ListOrganizations())
}

func (r *Runner) memberAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	membership, _, err := svc.AddMembership(ctx, cmd.String("user"), cmd.String("org"))
	if err != nil {
		return err
	}
	return r.writeJSON(membership)
}

func (r *Runner) sectionTypeCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	sectionType, _, err := svc.CreateSectionType(ctx, scope, cmd.String("name"))
	if err != nil {
		return err
	}
	return r.writeJSON(sectionType)
}

func (r *Runner) sectionTypeList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	sectionTypes, err := svc.ListSectionTypes(ctx, scope)
	if err != nil {
		return err
	}
	return r.writeJSON(sectionTypes)
}

func (r *Runner) songCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	key, err := domain.ParseMusicalKey(cmd.String("key"))
	if err != nil {
		return err
	}
	song, _, err := svc.CreateSong(ctx, scope, core.SongInput{Name: cmd.String("name"), DefaultKey: key})
	if err != nil {
		return err
	}
	return r.writeJSON(song)
}

func (r *Runner) songSearch(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	songs, total, err := svc.SearchSongs(ctx, scope, core.SongFilter{
		Query:  cmd.String("query"),
		TagIDs: cmd.StringSlice("tag"),
		Offset: int(cmd.Int("offset")),
		Limit:  int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}
	return r.writeJSON(map[string]any{"total": total, "songs": songs})
}

func (r *Runner) songTag(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	tag, _, err := svc.TagSong(ctx, scope, cmd.String("song"), cmd.String("tag"))
	if err != nil {
		return err
	}
	return r.writeJSON(tag)
}

func (r *Runner) songDelete(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	if _, err := svc.DeleteSong(ctx, scope, cmd.String("song")); err != nil {
		return err
	}
	r.logger.Info("song deleted", "song", cmd.String("song"))
	return nil
}

func (r *Runner) resourceCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	resource, _, err := svc.CreateResource(ctx, scope, cmd.String("song"), core.ResourceInput{
		Title: cmd.String("title"),
		URL:   cmd.String("url"),
	})
	if err != nil {
		return err
	}
	return r.writeJSON(resource)
}

func (r *Runner) resourceTransition(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	resource, _, err := svc.RequestResourceTransition(ctx, scope, cmd.String("id"), domain.ResourceStatus(cmd.String("status")))
	if err != nil {
		return err
	}
	return r.writeJSON(resource)
}

func (r *Runner) resourceList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	resources, err := svc.ListSongResources(ctx, scope, cmd.String("song"))
	if err != nil {
		return err
	}
	return r.writeJSON(resources)
}

func (r *Runner) setCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", cmd.String("date"))
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	input := core.SetInput{Date: date}
	if name := cmd.String("name"); name != "" {
		input.Name = &name
	}
	set, _, err := svc.CreateSet(ctx, scope, input)
	if err != nil {
		return err
	}
	return r.writeJSON(set)
}

func (r *Runner) setList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	var from, to time.Time
	if raw := cmd.String("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return fmt.Errorf("parse from: %w", err)
		}
	}
	if raw := cmd.String("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return fmt.Errorf("parse to: %w", err)
		}
	}
	sets, err := svc.ListSets(ctx, scope, from, to)
	if err != nil {
		return err
	}
	return r.writeJSON(sets)
}

func (r *Runner) setShow(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	detail, err := svc.GetSetDetail(ctx, scope, cmd.String("id"))
	if err != nil {
		return err
	}
	return r.writeJSON(detail)
}

func (r *Runner) sectionAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	var position *int
	if cmd.IsSet("position") {
		p := int(cmd.Int("position"))
		position = &p
	}
	section, _, err := svc.AddSection(ctx, scope, cmd.String("set"), cmd.String("type"), position)
	if err != nil {
		return err
	}
	return r.writeJSON(section)
}

func (r *Runner) placementAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	var position *int
	if cmd.IsSet("position") {
		p := int(cmd.Int("position"))
		position = &p
	}
	var key *domain.MusicalKey
	if raw := cmd.String("key"); raw != "" {
		parsed, err := domain.ParseMusicalKey(raw)
		if err != nil {
			return err
		}
		key = &parsed
	}
	placement, _, err := svc.AddSongToSection(ctx, scope, cmd.String("section"), cmd.String("song"), position, key)
	if err != nil {
		return err
	}
	return r.writeJSON(placement)
}

func (r *Runner) placementMove(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}
	scope, err := r.scope(ctx, cmd, svc)
	if err != nil {
		return err
	}
	placement, _, err := svc.MoveSongPlacement(ctx, scope, cmd.String("id"), cmd.String("section"), int(cmd.Int("position")))
	if err != nil {
		return err
	}
	return r.writeJSON(placement)
}
