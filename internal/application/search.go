package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/greekgang/terminal/pkg/pagination"
)

// searchIndex runs a fuzzy multi-field match against one index and maps the
// hits back to a page. Ranking comes entirely from Elasticsearch scoring.
func searchIndex(ctx context.Context, es *elasticsearch.Client, index, q string, fields []string, p pagination.Params) (pagination.Page[map[string]any], error) {
	if es == nil || index == "" {
		return pagination.New([]map[string]any{}, 0, p)
	}

	body := map[string]any{
		"from": p.Offset(),
		"size": p.PerPage,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    fields,
				"fuzziness": "AUTO",
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return pagination.Page[map[string]any]{}, err
	}

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := es.Search(
		es.Search.WithContext(c),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return pagination.Page[map[string]any]{}, fmt.Errorf("search %s: %w", index, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return pagination.Page[map[string]any]{}, fmt.Errorf("search %s: %s", index, res.Status())
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return pagination.Page[map[string]any]{}, fmt.Errorf("search %s: decode: %w", index, err)
	}

	items := make([]map[string]any, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		items = append(items, h.Source)
	}
	return pagination.New(items, out.Hits.Total.Value, p)
}
