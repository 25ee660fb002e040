// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
	}
}

// trackFlags describe a track reference on the command line.
func trackFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Track name", Required: true},
		&cli.StringFlag{Name: "artist", Usage: "Artist name"},
		&cli.StringFlag{Name: "album", Usage: "Album name"},
		&cli.StringFlag{Name: "audio", Usage: "Audio (preview) URL", Required: true},
		&cli.StringFlag{Name: "duration", Usage: "Duration as m:ss"},
		&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
	}
}

func identityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Track name", Required: true},
		&cli.StringFlag{Name: "artist", Usage: "Artist name"},
		&cli.StringFlag{Name: "album", Usage: "Album name"},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: csv, markdown, text, json", Value: "text"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: stdout)"},
		&cli.BoolFlag{Name: "cover", Usage: "Download the cover image next to a markdown export"},
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "playlist", Aliases: []string{"p"}, Usage: "Existing playlist ID to import into"},
		&cli.StringFlag{Name: "new", Usage: "Create a playlist with this name and import into it"},
		&cli.StringFlag{Name: "description", Usage: "Description for a new playlist"},
		&cli.IntFlag{Name: "workers", Usage: "Concurrent album fetches", Value: 4},
	}
}

// setupCommand handles setup operations for configuration and storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Open the configured storage backend (runs migrations for sqlite)",
				Action: r.SetupDatabase,
			},
		},
	}
}

// favoritesCommand handles the favorites collection
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites, oldest first",
				Flags:  jsonFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:   "add",
				Usage:  "Add a track to favorites",
				Flags:  trackFlags(),
				Action: r.FavoritesAdd,
			},
			{
				Name:   "remove",
				Usage:  "Remove a track from favorites",
				Flags:  identityFlags(),
				Action: r.FavoritesRemove,
			},
			{
				Name:   "toggle",
				Usage:  "Add the track if absent, remove it if present",
				Flags:  trackFlags(),
				Action: r.FavoritesToggle,
			},
			{
				Name:   "clear",
				Usage:  "Remove every favorite",
				Action: r.FavoritesClear,
			},
			{
				Name:   "export",
				Usage:  "Export favorites as a playlist document",
				Flags:  exportFlags(),
				Action: r.FavoritesExport,
			},
		},
	}
}

// playlistsCommand handles user playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  jsonFlags(),
				Action: r.PlaylistsList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.PlaylistsShow,
			},
			{
				Name:      "create",
				Usage:     "Create an empty playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Playlist description"},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:      "rename",
				Usage:     "Change a playlist's name or description",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New name"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
				},
				Action: r.PlaylistsRename,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PlaylistsDelete,
			},
			{
				Name:      "add-track",
				Usage:     "Append a track to a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     trackFlags(),
				Action:    r.PlaylistsAddTrack,
			},
			{
				Name:      "add-album",
				Usage:     "Append every track of a catalog album to a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album-id", Usage: "Catalog album ID", Required: true},
				},
				Action: r.PlaylistsAddAlbum,
			},
			{
				Name:  "remove-track",
				Usage: "Remove a track from a playlist by its playlist-track ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "track-id"},
				},
				Action: r.PlaylistsRemoveTrack,
			},
			{
				Name:      "export",
				Usage:     "Export a playlist, or every playlist with --all",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(exportFlags(),
					&cli.BoolFlag{Name: "all", Usage: "Export every playlist into --dir"},
					&cli.StringFlag{Name: "dir", Usage: "Output directory for --all"},
				),
				Action: r.PlaylistsExport,
			},
		},
	}
}

// catalogCommand handles read-only catalog lookups
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"spotify", "spot"},
		Usage:   "Search and browse the Spotify catalog",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search artists, albums and tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags: append(jsonFlags(),
					&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Restrict to artist, album or track (repeatable)"},
					&cli.IntFlag{Name: "limit", Usage: "Results per type (max 50)", Value: 10},
					&cli.IntFlag{Name: "offset", Usage: "Result offset"},
				),
				Action: r.CatalogSearch,
			},
			{
				Name:      "album",
				Usage:     "Show an album with its tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.CatalogAlbum,
			},
			{
				Name:      "artist",
				Usage:     "Show an artist with albums and top tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(jsonFlags(),
					&cli.IntFlag{Name: "limit", Usage: "Maximum albums to list", Value: 20},
				),
				Action: r.CatalogArtist,
			},
		},
	}
}

// importCommand copies catalog content into playlists
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import catalog albums and tracks into a playlist",
		Commands: []*cli.Command{
			{
				Name:      "album",
				Usage:     "Import one or more albums by ID",
				ArgsUsage: "<album-id>...",
				Flags:     targetFlags(),
				Action:    r.ImportAlbums,
			},
			{
				Name:      "discography",
				Usage:     "Import an artist's albums and singles",
				Arguments: []cli.Argument{&cli.StringArg{Name: "artist-id"}},
				Flags: append(targetFlags(),
					&cli.IntFlag{Name: "limit", Usage: "Maximum albums", Value: 20},
				),
				Action: r.ImportDiscography,
			},
			{
				Name:      "top-tracks",
				Usage:     "Import an artist's top tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "artist-id"}},
				Flags:     targetFlags(),
				Action:    r.ImportTopTracks,
			},
		},
	}
}

// playCommand plays a collection without the TUI
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a playlist or the favorites until the list ends",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "playlist", Aliases: []string{"p"}, Usage: "Playlist ID (default: favorites)"},
			&cli.IntFlag{Name: "start", Usage: "Index of the first track", Value: 0},
			&cli.BoolFlag{Name: "shuffle", Usage: "Shuffle the order"},
			&cli.StringFlag{Name: "repeat", Usage: "Repeat mode: none, all, one"},
			&cli.BoolFlag{Name: "silent", Usage: "Log tracks instead of playing audio"},
		},
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for interactive playback.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "silent", Usage: "Log tracks instead of playing audio"},
		},
		Action: r.TUI,
	}
}

// serveCommand runs the token proxy and read-only library API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the access-token proxy and library API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the health endpoint in a browser once listening"},
		},
		Action: r.Serve,
	}
}

// resetCommand clears the library
func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete every favorite and playlist",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the reset"},
		},
		Action: r.Reset,
	}
}
