package main

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/joho/godotenv"

	"github.com/greekgang/terminal/config"
	pginfra "github.com/greekgang/terminal/internal/infrastructure/postgres"
	"github.com/greekgang/terminal/pkg/helpers"
	"github.com/greekgang/terminal/pkg/pagination"
)

// Rebuilds the user and stock search indexes from the store. Run after
// enabling Elasticsearch on an existing database, or after losing an index.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to connect to elasticsearch: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	stocks := pginfra.NewStockRepository(pool)

	var indexed int
	for page := 1; ; page++ {
		pg, err := users.List(ctx, pagination.Params{Page: page, PerPage: 100})
		if err != nil {
			log.Fatalf("list users: %v", err)
		}
		if len(pg.Items) == 0 {
			break
		}
		for _, u := range pg.Items {
			doc := map[string]any{
				"username": u.Username,
				"email":    u.Email,
				"name":     u.Name,
				"about_me": u.AboutMe,
				"location": u.Location,
			}
			if err := indexDoc(ctx, es, cfg.ESUsersIndex, u.ID, doc); err != nil {
				log.Fatalf("index user %s: %v", u.Username, err)
			}
			indexed++
		}
		if !pg.HasNext() {
			break
		}
	}
	log.Printf("indexed %d users into %s", indexed, cfg.ESUsersIndex)

	indexed = 0
	for page := 1; ; page++ {
		pg, err := stocks.List(ctx, pagination.Params{Page: page, PerPage: 100})
		if err != nil {
			log.Fatalf("list stocks: %v", err)
		}
		if len(pg.Items) == 0 {
			break
		}
		for _, s := range pg.Items {
			doc := map[string]any{
				"name":   s.Name,
				"ticker": s.Ticker,
				"sector": s.Sector,
			}
			if err := indexDoc(ctx, es, cfg.ESStocksIndex, s.ID, doc); err != nil {
				log.Fatalf("index stock %s: %v", s.Ticker, err)
			}
			indexed++
		}
		if !pg.HasNext() {
			break
		}
	}
	log.Printf("indexed %d stocks into %s", indexed, cfg.ESStocksIndex)
}

func indexDoc(ctx context.Context, es *elasticsearch.Client, index string, id int64, doc map[string]any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: index, DocumentID: strconv.FormatInt(id, 10), Body: strings.NewReader(string(b))}
	res, err := req.Do(ctx, es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return errResponse(res.Status())
	}
	return nil
}

type errResponse string

func (e errResponse) Error() string { return "elasticsearch: " + string(e) }
