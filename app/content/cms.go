package content

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/feed"
)

const DefaultCMSURL = "https://api.cosmicjs.com/v3"

// CMSSource reads a collection from a hosted headless CMS bucket
type CMSSource struct {
	coll       config.Collection
	httpClient *http.Client
	extractor  *feed.ContentExtractor
	baseURL    string
	bucket     string
	readKey    string
	userAgent  string
}

func NewCMSSource(coll config.Collection, deps Deps) (*CMSSource, error) {
	if deps.CMSBucket == "" {
		return nil, fmt.Errorf("collection %q: CMS bucket is not configured", coll.Name)
	}

	return &CMSSource{
		coll:       coll,
		httpClient: cmp.Or(deps.HTTPClient, http.DefaultClient),
		extractor:  cmp.Or(deps.Extractor, feed.NewContentExtractor()),
		baseURL:    strings.TrimSuffix(cmp.Or(deps.CMSURL, DefaultCMSURL), "/"),
		bucket:     deps.CMSBucket,
		readKey:    deps.CMSReadKey,
		userAgent:  deps.UserAgent,
	}, nil
}

func (s *CMSSource) Name() string {
	return s.coll.Name
}

func (s *CMSSource) Load(ctx context.Context) ([]card.Card, error) {
	data, err := fetch(ctx, s.httpClient, s.objectsURL(), s.userAgent, s.coll.GetTimeout())
	if errors.Is(err, errNotFound) {
		slog.Debug("No CMS objects found", "collection", s.coll.Name, "type", s.coll.ObjectType)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CMS objects: %w", err)
	}

	var resp cmsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode CMS response: %w", err)
	}

	normalize := card.SlugNormalizer(s.coll.SlugPrefix)
	cards := make([]card.Card, 0, len(resp.Objects))
	for _, obj := range resp.Objects {
		slug := normalize(obj.Slug)
		if slug == "" {
			slog.Warn("Skipping CMS object without slug", "collection", s.coll.Name, "id", obj.ID)
			continue
		}
		cards = append(cards, s.toCard(slug, obj))
	}

	slog.Debug("CMS objects loaded", "collection", s.coll.Name, "objects", len(cards))
	return cards, nil
}

func (s *CMSSource) objectsURL() string {
	query := url.Values{}
	query.Set("query", fmt.Sprintf(`{"type":%q}`, s.coll.ObjectType))
	query.Set("props", "id,slug,title,status,metadata")
	query.Set("depth", "1")
	if s.readKey != "" {
		query.Set("read_key", s.readKey)
	}
	return fmt.Sprintf("%s/buckets/%s/objects?%s", s.baseURL, url.PathEscape(s.bucket), query.Encode())
}

func (s *CMSSource) toCard(slug string, obj cmsObject) card.Card {
	m := obj.Metadata
	c := card.Card{
		Kind:        s.coll.Kind,
		Slug:        slug,
		Title:       strings.TrimSpace(obj.Title),
		Description: cmp.Or(m.Description, m.Summary),
		Company:     m.Company.Name,
		Thumbnail:   cmp.Or(m.Thumbnail.URL, m.Company.Image),
		Permalink:   permalink(s.coll.Name, slug),
		Date:        m.Date,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Tags:        m.Tags,
		Languages:   m.Languages,
		Domains:     m.Domains,
		Draft:       m.Draft || obj.Status == "draft",
		Body:        m.Content,
	}

	if c.Description == "" && c.Body != "" {
		c.Description = s.extractor.Excerpt(c.Body, excerptLength)
	}

	return c
}
