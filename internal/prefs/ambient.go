package prefs

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrUnsupportedURL = errors.New("prefs: not a youtube video or playlist url")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Ambient identifies a youtube video, a playlist, or both.
type Ambient struct {
	VideoID    string
	PlaylistID string
}

func (a Ambient) IsZero() bool {
	return a.VideoID == "" && a.PlaylistID == ""
}

// EmbedURL is the looping embed address for the source.
func (a Ambient) EmbedURL() string {
	switch {
	case a.PlaylistID != "":
		return "https://www.youtube.com/embed/videoseries?list=" + url.QueryEscape(a.PlaylistID)
	case a.VideoID != "":
		return "https://www.youtube.com/embed/" + a.VideoID + "?playlist=" + a.VideoID + "&loop=1"
	}
	return ""
}

// ParseAmbientURL understands watch, youtu.be, embed, shorts, live and
// playlist links. A list parameter wins over the video when both are given.
func ParseAmbientURL(raw string) (Ambient, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Ambient{}, ErrUnsupportedURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")

	var out Ambient
	out.PlaylistID = u.Query().Get("list")

	switch host {
	case "youtu.be":
		out.VideoID = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case segments[0] == "watch":
			out.VideoID = u.Query().Get("v")
		case len(segments) >= 2 && (segments[0] == "embed" || segments[0] == "v" || segments[0] == "e" ||
			segments[0] == "shorts" || segments[0] == "live"):
			out.VideoID = segments[1]
		}
	default:
		return Ambient{}, ErrUnsupportedURL
	}

	if !videoIDPattern.MatchString(out.VideoID) {
		out.VideoID = ""
	}
	if out.IsZero() {
		return Ambient{}, ErrUnsupportedURL
	}
	return out, nil
}

func firstSegment(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
