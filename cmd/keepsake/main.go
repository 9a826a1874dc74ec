package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"keepsake/internal/config"
	"keepsake/internal/forms"
	"keepsake/internal/jar"
	"keepsake/internal/links"
	"keepsake/internal/list"
	"keepsake/internal/logging"
	"keepsake/internal/server"
	"keepsake/internal/tui"
	"keepsake/internal/version"
	"keepsake/internal/youtube"
)

func main() {
	a, err := newApp(config.AppConfigLoader(), os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	err = a.command().Run(context.Background(), os.Args)
	if err != nil {
		a.logger.WithError(err).Debug("command failed")
	}
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    "keepsake",
		Usage:   "Time capsules, gift cards and music jars",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:  "capsule",
				Usage: "Create time capsules and get their view links",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Create a time capsule",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Usage: "creator email", Required: true},
							&cli.StringFlag{Name: "title", Usage: "capsule title", Required: true},
							&cli.StringFlag{Name: "message", Usage: "message to your future self", Required: true},
							&cli.StringFlag{Name: "media-url", Usage: "optional photo or video link"},
							&cli.StringFlag{Name: "open-date", Usage: "when the capsule opens (RFC3339, 2006-01-02 15:04 or 2006-01-02)", Required: true},
							&cli.BoolFlag{Name: "copy", Usage: "copy the view link to the clipboard"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							openDate, err := forms.ParseOpenDate(c.String("open-date"), time.Local)
							if err != nil {
								return err
							}
							return a.createCapsule(ctx, forms.CapsuleForm{
								CreatorEmail: c.String("email"),
								Title:        c.String("title"),
								Message:      c.String("message"),
								MediaURL:     c.String("media-url"),
								OpenDate:     openDate,
							}, c.Bool("copy"))
						},
					},
					{
						Name:  "link",
						Usage: "Show the view link of the last capsule",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "copy", Usage: "copy the link to the clipboard"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.showLastLink(ctx, links.KindCapsule, c.Bool("copy"))
						},
					},
				},
			},
			{
				Name:  "gift",
				Usage: "Send gift cards and get their view links",
				Commands: []*cli.Command{
					{
						Name:  "send",
						Usage: "Send a gift card",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "from", Usage: "sender name", Required: true},
							&cli.StringFlag{Name: "to", Usage: "recipient name", Required: true},
							&cli.StringFlag{Name: "to-email", Usage: "recipient email", Required: true},
							&cli.StringFlag{Name: "template", Usage: "card template", Required: true},
							&cli.StringFlag{Name: "message", Usage: "card message", Required: true},
							&cli.BoolFlag{Name: "copy", Usage: "copy the view link to the clipboard"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.sendGift(ctx, forms.GiftForm{
								SenderName:     c.String("from"),
								RecipientName:  c.String("to"),
								RecipientEmail: c.String("to-email"),
								CardTemplate:   c.String("template"),
								Message:        c.String("message"),
							}, c.Bool("copy"))
						},
					},
					{
						Name:  "link",
						Usage: "Show the view link of the last gift",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "copy", Usage: "copy the link to the clipboard"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.showLastLink(ctx, links.KindGift, c.Bool("copy"))
						},
					},
				},
			},
			{
				Name:  "music",
				Usage: "Browse and play the music jars",
				Commands: []*cli.Command{
					{
						Name:  "jars",
						Usage: "List the jars",
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.listJars(ctx)
						},
					},
					{
						Name:  "random",
						Usage: "Pick a random song",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "jar", Usage: "jar to pick from (default: any jar)"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.randomMusic(ctx, c.String("jar"))
						},
					},
					{
						Name:  "add",
						Usage: "Add a song to a jar",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "jar", Usage: "jar name", Required: true},
							&cli.StringFlag{Name: "song", Usage: "song name", Required: true},
							&cli.StringFlag{Name: "artist", Usage: "artist name", Required: true},
							&cli.StringFlag{Name: "url", Usage: "YouTube link or video ID", Required: true},
							&cli.StringFlag{Name: "added-by", Usage: "your name", Value: forms.DefaultAddedBy},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.addMusic(ctx, forms.MusicForm{
								JarType:    c.String("jar"),
								SongName:   c.String("song"),
								ArtistName: c.String("artist"),
								YouTubeURL: c.String("url"),
								AddedBy:    c.String("added-by"),
							})
						},
					},
					{
						Name:  "play",
						Usage: "Open the music jar player",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "jar", Usage: "start playing this jar"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return tui.Run(ctx, jar.NewSession(a.api, a.logger), a.api, c.String("jar"))
						},
					},
				},
			},
			{
				Name:  "youtube",
				Usage: "YouTube link helpers",
				Commands: []*cli.Command{
					{
						Name:  "extract",
						Usage: "Print the video ID of a YouTube link",
						Arguments: []cli.Argument{
							&cli.StringArg{
								Name:      "reference",
								UsageText: "url or video id",
							},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.extract(c.StringArg("reference"))
						},
					},
				},
			},
			{
				Name:  "links",
				Usage: "List created capsule and gift links",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "capsule or gift (default: both)"},
					&cli.IntFlag{Name: "limit", Usage: "maximum number of links (default: all)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return list.Run(ctx, a.out, a.cfg.DatabasePath, strings.ToLower(strings.TrimSpace(c.String("kind"))), c.Int("limit"))
				},
			},
			{
				Name:  "server",
				Usage: "Run MCP server on stdio",
				Action: func(ctx context.Context, c *cli.Command) error {
					return server.Run(ctx, server.NewTools(a.api, a.cfg.DatabasePath, a.logger))
				},
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write ~/.config/keepsake/config.yaml",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "api-url", Usage: "API base URL"},
							&cli.StringFlag{Name: "web-url", Usage: "base URL of the view pages"},
							&cli.StringFlag{Name: "db", Usage: "link history database path"},
							&cli.StringFlag{Name: "path", Usage: "write to this file instead of the default location"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return a.initConfig(c.String("path"), c.String("api-url"), c.String("web-url"), c.String("db"))
						},
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Fprintln(a.out, version.GetVersion())
					return nil
				},
			},
		},
	}
}

func (a *app) createCapsule(ctx context.Context, f forms.CapsuleForm, copyLink bool) error {
	if err := f.Validate(time.Now()); err != nil {
		return err
	}
	resp, err := a.api.CreateCapsule(ctx, f.Request())
	if err != nil {
		return err
	}

	l := a.saveLink(ctx, links.KindCapsule, resp.CapsuleID, forms.CapsuleViewLink(a.cfg.WebBaseURL, resp.CapsuleID))

	fmt.Fprintln(a.out, "Time capsule created!")
	fmt.Fprintf(a.out, "Opens on: %s\n", forms.FormatOpenDate(f.OpenDate))
	if youtube.IsYouTubeURL(f.MediaURL) {
		if id, ok := youtube.ExtractVideoID(f.MediaURL); ok {
			fmt.Fprintf(a.out, "Media: %s\n", youtube.EmbedURL(id, false))
		}
	}
	fmt.Fprintf(a.out, "View link: %s\n", l.URL)
	return a.maybeCopy(l, copyLink)
}

func (a *app) sendGift(ctx context.Context, f forms.GiftForm, copyLink bool) error {
	if err := f.Validate(a.cfg.GiftTemplates); err != nil {
		return err
	}
	resp, err := a.api.SendGift(ctx, f.Request())
	if err != nil {
		return err
	}

	l := a.saveLink(ctx, links.KindGift, giftRef(resp.ViewLink), resp.ViewLink)

	fmt.Fprintln(a.out, "Gift card sent!")
	fmt.Fprintf(a.out, "View link: %s\n", l.URL)
	return a.maybeCopy(l, copyLink)
}

// giftRef pulls the gift id out of a view link when it carries one.
func giftRef(viewLink string) string {
	u, err := url.Parse(viewLink)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

func (a *app) showLastLink(ctx context.Context, kind string, copyLink bool) error {
	db, err := a.openLinks()
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := links.Last(ctx, db, kind)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	fmt.Fprintln(a.out, l.URL)
	return a.maybeCopy(l, copyLink)
}

func (a *app) maybeCopy(l *links.Link, copyLink bool) error {
	if !copyLink {
		return nil
	}
	if err := links.Copy(l, a.copier); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Link copied!")
	return nil
}

func (a *app) listJars(ctx context.Context) error {
	jars, err := a.api.ListJars(ctx)
	if err != nil {
		return err
	}
	if len(jars) == 0 {
		fmt.Fprintln(a.out, "No jars yet.")
		return nil
	}
	for _, j := range jars {
		if j.Description != "" {
			fmt.Fprintf(a.out, "%s  %s\n", j.Label(), j.Description)
		} else {
			fmt.Fprintln(a.out, j.Label())
		}
	}
	return nil
}

func (a *app) randomMusic(ctx context.Context, jarName string) error {
	session := jar.NewSession(a.api, a.logger)
	if _, err := session.Load(ctx); err != nil {
		a.logger.WithError(err).Debug("jar list unavailable for labels")
	}

	var (
		pb  *jar.Playback
		err error
	)
	if strings.TrimSpace(jarName) != "" {
		pb, err = session.Select(ctx, strings.TrimSpace(jarName))
	} else {
		pb, err = session.Any(ctx)
	}
	if err != nil {
		return err
	}

	printPlayback(a.out, pb)
	return nil
}

func printPlayback(w io.Writer, pb *jar.Playback) {
	fmt.Fprintf(w, "♪ %s · %s\n", pb.Music.SongName, pb.Music.ArtistName)
	if pb.JarLabel != "" {
		fmt.Fprintf(w, "Jar: %s\n", pb.JarLabel)
	}
	fmt.Fprintf(w, "Watch: %s\n", youtube.WatchURL(pb.VideoID))
	fmt.Fprintf(w, "Embed: %s\n", pb.EmbedURL)
}

func (a *app) addMusic(ctx context.Context, f forms.MusicForm) error {
	if err := f.Validate(); err != nil {
		return err
	}
	req := f.Request()
	if err := a.api.AddMusic(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q by %s to %s\n", req.SongName, req.ArtistName, req.JarType)
	return nil
}

func (a *app) extract(reference string) error {
	id, err := youtube.ParseReference(reference)
	if err != nil {
		return fmt.Errorf("%q: %w", reference, err)
	}
	fmt.Fprintf(a.out, "Video ID: %s\n", id)
	fmt.Fprintf(a.out, "Watch: %s\n", youtube.WatchURL(id))
	fmt.Fprintf(a.out, "Embed: %s\n", youtube.EmbedURL(id, false))
	return nil
}

func (a *app) initConfig(path, apiURL, webURL, dbPath string) error {
	if strings.TrimSpace(path) == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	ac := a.cfg
	if v := strings.TrimSpace(apiURL); v != "" {
		ac.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(webURL); v != "" {
		ac.WebBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(dbPath); v != "" {
		ac.DatabasePath = v
	}
	if _, err := logging.ParseLevel(ac.Log.Level); err != nil {
		ac.Log.Level = "info"
	}

	if err := config.WriteConfig(path, ac); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Config written to %s\n", path)
	return nil
}
