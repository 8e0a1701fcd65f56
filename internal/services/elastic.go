package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/models"
)

const productsIndex = "products"

var ErrSearchUnavailable = errors.New("search: elasticsearch not configured")

// ProductSearch délègue la recherche texte du catalogue à Elasticsearch.
type ProductSearch struct {
	client *elasticsearch.Client
	log    *zap.Logger
}

func NewProductSearch(client *elasticsearch.Client, log *zap.Logger) *ProductSearch {
	return &ProductSearch{client: client, log: log}
}

func (s *ProductSearch) Enabled() bool {
	return s != nil && s.client != nil
}

type productDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexProducts (ré)indexe les produits via l'API bulk.
func (s *ProductSearch) IndexProducts(ctx context.Context, products []models.Product) error {
	if !s.Enabled() {
		return ErrSearchUnavailable
	}
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": productsIndex, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		doc := productDoc{ID: p.ID, Name: p.Name, Description: p.Description, Category: string(p.Category)}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{Body: &buf, Refresh: "true"}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elastic a renvoyé une erreur: %s", res.String())
	}

	s.log.Info("✅ Produits indexés dans Elasticsearch", zap.Int("count", len(products)))
	return nil
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

// SearchIDs renvoie les identifiants des produits correspondant à query,
// dans l'ordre renvoyé par Elasticsearch.
func (s *ProductSearch) SearchIDs(ctx context.Context, query string, category models.Category, size int) ([]string, error) {
	if !s.Enabled() {
		return nil, ErrSearchUnavailable
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(query, category, size)); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productsIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elastic: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func searchBody(query string, category models.Category, size int) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "description"},
			},
		},
	}
	boolQuery := map[string]interface{}{"must": must}
	if category != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"category": string(category)}},
		}
	}
	return map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

// FilterLocal est le repli sans Elasticsearch : sous-chaîne insensible à la
// casse sur le nom et la description.
func FilterLocal(products []models.Product, query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}
	var out []models.Product
	for _, p := range products {
		if containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) {
			out = append(out, p)
		}
	}
	return out
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
