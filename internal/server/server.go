package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"keepsake/internal/api"
	"keepsake/internal/jar"
	"keepsake/internal/links"
	"keepsake/internal/version"
	"keepsake/internal/youtube"
)

type ExtractVideoIDParams struct {
	Reference any `json:"reference"`
}

type ListJarsParams struct{}

type RandomMusicParams struct {
	Jar *string `json:"jar,omitempty"`
}

type RecentLinksParams struct {
	Kind  *string `json:"kind,omitempty"`
	Limit *int    `json:"limit,omitempty"`
}

// Tools serves the keepsake MCP tools.
type Tools struct {
	remote jar.Remote
	dbPath string
	logger logrus.FieldLogger
}

func NewTools(remote jar.Remote, dbPath string, logger logrus.FieldLogger) *Tools {
	return &Tools{remote: remote, dbPath: dbPath, logger: logger}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(t *Tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "keepsake", Version: version.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: "extract_video_id", Description: "Extract the 11-character YouTube video ID from a URL or raw ID"}, t.handleExtractVideoID)
	mcp.AddTool(server, &mcp.Tool{Name: "list_jars", Description: "List the music jars"}, t.handleListJars)
	mcp.AddTool(server, &mcp.Tool{Name: "random_music", Description: "Pick a random song from a jar, or from any jar when none is given"}, t.handleRandomMusic)
	mcp.AddTool(server, &mcp.Tool{Name: "recent_links", Description: "List recently created capsule and gift view links"}, t.handleRecentLinks)

	return server
}

func Run(ctx context.Context, t *Tools) error {
	return NewServer(t).Run(ctx, &mcp.StdioTransport{})
}

func (t *Tools) handleExtractVideoID(ctx context.Context, req *mcp.CallToolRequest, p ExtractVideoIDParams) (*mcp.CallToolResult, any, error) {
	id, ok := youtube.VideoIDFromValue(p.Reference)
	if !ok {
		return nil, map[string]any{
			"ok":      false,
			"message": youtube.ErrNoMatch.Error(),
		}, nil
	}
	return nil, map[string]any{
		"ok":        true,
		"video_id":  id,
		"embed_url": youtube.EmbedURL(id, false),
		"watch_url": youtube.WatchURL(id),
	}, nil
}

func (t *Tools) handleListJars(ctx context.Context, req *mcp.CallToolRequest, p ListJarsParams) (*mcp.CallToolResult, any, error) {
	jars, err := t.remote.ListJars(ctx)
	if err != nil {
		return nil, failure(err), nil
	}
	type item struct {
		Name        string `json:"name"`
		Label       string `json:"label"`
		Color       string `json:"color,omitempty"`
		Description string `json:"description,omitempty"`
	}
	items := make([]item, 0, len(jars))
	for _, j := range jars {
		items = append(items, item{Name: j.Name, Label: j.Label(), Color: j.Color, Description: j.Description})
	}
	return nil, map[string]any{"count": len(items), "jars": items}, nil
}

func (t *Tools) handleRandomMusic(ctx context.Context, req *mcp.CallToolRequest, p RandomMusicParams) (*mcp.CallToolResult, any, error) {
	session := jar.NewSession(t.remote, t.logger)
	// labels only, a failure here still lets the song play
	if _, err := session.Load(ctx); err != nil {
		t.logger.WithError(err).Debug("jar list unavailable for labels")
	}

	var (
		pb  *jar.Playback
		err error
	)
	if p.Jar != nil && strings.TrimSpace(*p.Jar) != "" {
		pb, err = session.Select(ctx, strings.TrimSpace(*p.Jar))
	} else {
		pb, err = session.Any(ctx)
	}
	if err != nil {
		return nil, failure(err), nil
	}

	return nil, map[string]any{
		"ok":          true,
		"id":          pb.Music.ID,
		"song_name":   pb.Music.SongName,
		"artist_name": pb.Music.ArtistName,
		"jar":         pb.Music.JarType,
		"jar_label":   pb.JarLabel,
		"video_id":    pb.VideoID,
		"embed_url":   pb.EmbedURL,
		"watch_url":   youtube.WatchURL(pb.VideoID),
	}, nil
}

func (t *Tools) handleRecentLinks(ctx context.Context, req *mcp.CallToolRequest, p RecentLinksParams) (*mcp.CallToolResult, any, error) {
	lim := 20
	if p.Limit != nil && *p.Limit > 0 {
		lim = *p.Limit
	}
	kind := ""
	if p.Kind != nil {
		kind = strings.ToLower(strings.TrimSpace(*p.Kind))
	}
	if kind != "" && kind != links.KindCapsule && kind != links.KindGift {
		return nil, map[string]any{
			"ok":      false,
			"message": fmt.Sprintf("unknown link kind %q", kind),
			"hint":    "Use \"capsule\", \"gift\" or leave kind empty for both.",
		}, nil
	}

	if !fileExists(t.dbPath) {
		return nil, map[string]any{
			"ok":      false,
			"message": fmt.Sprintf("Keepsake database not found at %s", t.dbPath),
			"hint":    "Create a capsule or send a gift first, or set database.path in ~/.config/keepsake/config.yaml.",
			"db_path": t.dbPath,
		}, nil
	}
	db, err := links.Open(t.dbPath)
	if err != nil {
		return nil, map[string]any{
			"ok":      false,
			"message": "Failed opening the Keepsake database",
			"error":   err.Error(),
			"db_path": t.dbPath,
		}, nil
	}
	defer db.Close()

	rows, err := links.List(ctx, db, kind, lim)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "no such table") {
			return nil, map[string]any{
				"ok":      false,
				"message": "Keepsake database is present but has no link history yet",
				"db_path": t.dbPath,
			}, nil
		}
		return nil, map[string]any{
			"ok":      false,
			"message": "Query failed while reading link history",
			"error":   err.Error(),
			"db_path": t.dbPath,
		}, nil
	}

	type item struct {
		Kind      string    `json:"kind"`
		Ref       string    `json:"ref,omitempty"`
		URL       string    `json:"url"`
		CreatedAt time.Time `json:"created_at"`
	}
	items := make([]item, 0, len(rows))
	for _, r := range rows {
		items = append(items, item{Kind: r.Kind, Ref: r.Ref, URL: r.URL, CreatedAt: r.CreatedAt})
	}
	return nil, map[string]any{"count": len(items), "links": items}, nil
}

// failure reports API errors as tool output so the model can read the message.
func failure(err error) map[string]any {
	out := map[string]any{"ok": false, "message": err.Error()}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		out["message"] = apiErr.Message
		out["status"] = apiErr.StatusCode
	}
	if errors.Is(err, jar.ErrInvalidVideo) {
		out["message"] = jar.ErrInvalidVideo.Error()
	}
	return out
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	if _, err := os.Stat(p); err == nil {
		return true
	}
	return false
}
