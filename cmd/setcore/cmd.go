// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func scopeFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:     "user",
			Usage:    "Acting user id",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "org",
			Usage:    "Organization id",
			Required: true,
		},
	}
}

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Write a starter configuration file",
		Flags:  []cli.Flag{configFlag()},
		Action: r.initConfig,
	}
}

func orgCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "org",
		Usage: "Organization administration",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an organization",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Organization name", Required: true},
				},
				Action: r.orgCreate,
			},
			{
				Name:   "list",
				Usage:  "List organizations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.orgList,
			},
		},
	}
}

func memberCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "member",
		Usage: "Membership administration",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Grant a user access to an organization",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "user", Usage: "User id", Required: true},
					&cli.StringFlag{Name: "org", Usage: "Organization id", Required: true},
				},
				Action: r.memberAdd,
			},
		},
	}
}

func sectionTypeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sectiontype",
		Usage: "Section kind catalog",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a section kind",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "name", Usage: "Section kind name", Required: true},
				),
				Action: r.sectionTypeCreate,
			},
			{
				Name:   "list",
				Usage:  "List section kinds",
				Flags:  scopeFlags(),
				Action: r.sectionTypeList,
			},
		},
	}
}

func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Song catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Add a song to the catalog",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "name", Usage: "Song name", Required: true},
					&cli.StringFlag{Name: "key", Usage: "Default musical key", Required: true},
				),
				Action: r.songCreate,
			},
			{
				Name:  "search",
				Usage: "Search the catalog",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "query", Usage: "Name substring"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Tag id filter (conjunctive)"},
					&cli.IntFlag{Name: "offset", Usage: "Result offset"},
					&cli.IntFlag{Name: "limit", Usage: "Result limit"},
				),
				Action: r.songSearch,
			},
			{
				Name:  "tag",
				Usage: "Attach a tag to a song",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "song", Usage: "Song id", Required: true},
					&cli.StringFlag{Name: "tag", Usage: "Tag text", Required: true},
				),
				Action: r.songTag,
			},
			{
				Name:  "delete",
				Usage: "Delete a song and its placements",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "song", Usage: "Song id", Required: true},
				),
				Action: r.songDelete,
			},
		},
	}
}

func resourceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resource",
		Usage: "Song resource lifecycle",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Attach a resource to a song",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "song", Usage: "Song id", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Resource title", Required: true},
					&cli.StringFlag{Name: "url", Usage: "Resource URL", Required: true},
				),
				Action: r.resourceCreate,
			},
			{
				Name:  "transition",
				Usage: "Request a resource status transition",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "id", Usage: "Resource id", Required: true},
					&cli.StringFlag{Name: "status", Usage: "Target status (queued|ready|failed)", Required: true},
				),
				Action: r.resourceTransition,
			},
			{
				Name:  "list",
				Usage: "List a song's resources",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "song", Usage: "Song id", Required: true},
				),
				Action: r.resourceList,
			},
		},
	}
}

func setCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Set composition operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an empty set",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "date", Usage: "Service date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Optional set name"},
				),
				Action: r.setCreate,
			},
			{
				Name:  "list",
				Usage: "List sets by date range",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "from", Usage: "Lower date bound (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "to", Usage: "Upper date bound (YYYY-MM-DD)"},
				),
				Action: r.setList,
			},
			{
				Name:  "show",
				Usage: "Show a set with sections, songs, and readiness",
				Flags: append(scopeFlags(),
					&cli.StringFlag{Name: "id", Usage: "Set id", Required: true},
				),
				Action: r.setShow,
			},
			{
				Name:  "section",
				Usage: "Section operations",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "Add a section to a set",
						Flags: append(scopeFlags(),
							&cli.StringFlag{Name: "set", Usage: "Set id", Required: true},
							&cli.StringFlag{Name: "type", Usage: "Section kind id", Required: true},
							&cli.IntFlag{Name: "position", Usage: "Insert position (default append)"},
						),
						Action: r.sectionAdd,
					},
				},
			},
			{
				Name:  "song",
				Usage: "Song placement operations",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "Place a song in a section",
						Flags: append(scopeFlags(),
							&cli.StringFlag{Name: "section", Usage: "Section id", Required: true},
							&cli.StringFlag{Name: "song", Usage: "Song id", Required: true},
							&cli.IntFlag{Name: "position", Usage: "Insert position (default append)"},
							&cli.StringFlag{Name: "key", Usage: "Key override"},
						),
						Action: r.placementAdd,
					},
					{
						Name:  "move",
						Usage: "Move a placement to a section and position",
						Flags: append(scopeFlags(),
							&cli.StringFlag{Name: "id", Usage: "Placement id", Required: true},
							&cli.StringFlag{Name: "section", Usage: "Target section id", Required: true},
							&cli.IntFlag{Name: "position", Usage: "Target position", Required: true},
						),
						Action: r.placementMove,
					},
				},
			},
		},
	}
}
