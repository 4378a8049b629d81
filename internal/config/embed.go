// Package config reads the widget's embed-tag configuration and the
// terminal shell's own settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Embed attribute names.
const (
	AttrBotID          = "data-bot-id"
	AttrAPIBase        = "data-api-base"
	AttrAutoOpenDelay  = "data-auto-open-delay"
	AttrAutoWelcome    = "data-auto-welcome"
	AttrWarnDelay      = "data-inactivity-warning-ms"
	AttrCloseDelay     = "data-inactivity-close-ms"
	AttrWarningMessage = "data-inactivity-warning-message"
	AttrCloseMessage   = "data-inactivity-close-message"
)

// Embed defaults.
const (
	DefaultWelcomeMessage = "Hi there! How can I help you today?"
	DefaultWarningMessage = "Just checking in - I'll close the chat soon if I don't hear back."
	DefaultCloseMessage   = "I'll close our chat for now. Feel free to start a new one anytime!"

	DefaultWarnDelay  = 70000 * time.Millisecond
	DefaultCloseDelay = 60000 * time.Millisecond
	ClosingGrace      = 1500 * time.Millisecond
)

var (
	// ErrMissingBotID aborts initialization: the widget cannot mount
	// without knowing which bot it talks to.
	ErrMissingBotID = errors.New("embed tag is missing " + AttrBotID)
	// ErrNoAPIBase means neither data-api-base nor an absolute script src
	// was available.
	ErrNoAPIBase = errors.New("cannot determine API base: set " + AttrAPIBase + " or load the script from an absolute URL")
)

// Embed is the configuration read once from the hosting page's embed tag.
type Embed struct {
	BotID   string
	APIBase string

	// AutoOpenDelay of zero disables auto-open.
	AutoOpenDelay  time.Duration
	WelcomeMessage string

	WarnDelay      time.Duration
	CloseDelay     time.Duration
	WarningMessage string
	CloseMessage   string
}

// ParseEmbed reads an embed tag given its attributes and the script src.
// A relative src is resolved against pageURL. Unparseable numbers fall back
// to their defaults with a warning.
func ParseEmbed(attrs map[string]string, scriptSrc, pageURL string, log zerolog.Logger) (Embed, error) {
	e := Embed{
		BotID:          strings.TrimSpace(attrs[AttrBotID]),
		WelcomeMessage: DefaultWelcomeMessage,
		WarnDelay:      DefaultWarnDelay,
		CloseDelay:     DefaultCloseDelay,
		WarningMessage: DefaultWarningMessage,
		CloseMessage:   DefaultCloseMessage,
	}
	if e.BotID == "" {
		log.Error().Msg("widget not mounted: " + ErrMissingBotID.Error())
		return Embed{}, ErrMissingBotID
	}

	base := strings.TrimSpace(attrs[AttrAPIBase])
	if base == "" {
		base = scriptOrigin(scriptSrc, pageURL)
	}
	if base == "" {
		log.Error().Str("src", scriptSrc).Msg("widget not mounted: " + ErrNoAPIBase.Error())
		return Embed{}, ErrNoAPIBase
	}
	e.APIBase = strings.TrimRight(base, "/")

	e.AutoOpenDelay = millis(attrs, AttrAutoOpenDelay, 0, log)
	e.WarnDelay = millis(attrs, AttrWarnDelay, DefaultWarnDelay, log)
	e.CloseDelay = millis(attrs, AttrCloseDelay, DefaultCloseDelay, log)

	if v, ok := attrs[AttrAutoWelcome]; ok {
		e.WelcomeMessage = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(attrs[AttrWarningMessage]); v != "" {
		e.WarningMessage = v
	}
	if v := strings.TrimSpace(attrs[AttrCloseMessage]); v != "" {
		e.CloseMessage = v
	}
	return e, nil
}

// ParseEmbedHTML finds the first script[data-bot-id] in an HTML document or
// snippet and parses it like ParseEmbed.
func ParseEmbedHTML(r io.Reader, pageURL string, log zerolog.Logger) (Embed, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Embed{}, fmt.Errorf("parse embed html: %w", err)
	}

	tag := doc.Find("script[" + AttrBotID + "]").First()
	if tag.Length() == 0 {
		log.Error().Msg("widget not mounted: no script[" + AttrBotID + "] element found")
		return Embed{}, ErrMissingBotID
	}

	attrs := make(map[string]string)
	for _, a := range tag.Nodes[0].Attr {
		if strings.HasPrefix(a.Key, "data-") {
			attrs[a.Key] = a.Val
		}
	}
	src, _ := tag.Attr("src")
	return ParseEmbed(attrs, src, pageURL, log)
}

// scriptOrigin returns scheme://host of src, resolving it against pageURL
// when relative.
func scriptOrigin(src, pageURL string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if !u.IsAbs() && pageURL != "" {
		page, err := url.Parse(pageURL)
		if err != nil {
			return ""
		}
		u = page.ResolveReference(u)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func millis(attrs map[string]string, key string, def time.Duration, log zerolog.Logger) time.Duration {
	raw, ok := attrs[key]
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warn().Str("attr", key).Str("value", raw).Dur("default", def).Msg("invalid embed attribute, using default")
		return def
	}
	return time.Duration(n) * time.Millisecond
}
