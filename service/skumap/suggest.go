package skumap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	"stockops.GO/config"
	salesRepo "stockops.GO/model/repository/sales"
)

// Suggestion is one scored mapping candidate. Suggestions are advisory;
// nothing is written until an operator creates the mapping.
type Suggestion struct {
	SourceSku  string  `json:"source_sku"`
	TargetSku  string  `json:"target_sku"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Score      float64 `json:"score"`
}

// SuggestInput is the JSON input for a suggestion run. With no source SKUs
// the unmapped SKUs from recent order history are used.
type SuggestInput struct {
	SourceSkus []string `json:"source_skus"`
	Limit      int      `json:"limit"`
}

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// SearchService wraps the optional elasticsearch catalog index used for
// fuzzy SKU matching.
type SearchService struct {
	client *elasticsearch.Client
	index  string
}

// GetSearchService returns the singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

func NewSearchService() *SearchService {
	host := config.GetEnv("ELASTICSEARCH_HOST", "")
	prefix := config.GetEnv("ELASTICSEARCH_INDEX_PREFIX", "stockops")
	index := prefix + "_product_sku"

	if host == "" {
		return &SearchService{index: index}
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{host},
	})
	if err != nil {
		return &SearchService{index: index}
	}
	return &SearchService{client: client, index: index}
}

// Enabled reports whether fuzzy matching is available.
func (s *SearchService) Enabled() bool {
	return s.client != nil
}

type esSkuDoc struct {
	SKU string `mapstructure:"sku"`
}

// FuzzyMatch queries the catalog index for SKUs close to the query string.
// Returns target SKU -> score.
func (s *SearchService) FuzzyMatch(ctx context.Context, query string, size int) (map[string]float64, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"fuzzy": map[string]interface{}{
				"sku": map[string]interface{}{
					"value":     strings.ToUpper(query),
					"fuzziness": "AUTO",
				},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Score  float64                `json:"_score"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	matches := make(map[string]float64, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		var doc esSkuDoc
		cfg := &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &doc,
			TagName:          "mapstructure",
		}
		dec, _ := mapstructure.NewDecoder(cfg)
		if err := dec.Decode(hit.Source); err != nil || doc.SKU == "" {
			continue
		}
		matches[doc.SKU] = hit.Score
	}
	return matches, nil
}

// normalizeSku collapses the usual channel listing noise: case, surrounding
// space, spaces and underscores instead of dashes.
func normalizeSku(sku string) string {
	s := strings.ToUpper(strings.TrimSpace(sku))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// Suggest scores mapping candidates for unresolved SKUs. Heuristics run
// first (normalization, suffix stripping); the elasticsearch catalog index
// adds fuzzy candidates when configured. Sources that already resolve are
// skipped.
func Suggest(ctx context.Context, db *gorm.DB, in SuggestInput) ([]Suggestion, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}

	tables, err := LoadTables(db)
	if err != nil {
		return nil, err
	}

	sources := in.SourceSkus
	if len(sources) == 0 {
		repo, err := salesRepo.NewSalesRepository(db)
		if err != nil {
			return nil, err
		}
		sources, err = repo.DistinctRawSkus(time.Now().AddDate(0, 0, -90))
		if err != nil {
			return nil, err
		}
	}

	search := GetSearchService()
	best := make(map[string]Suggestion)
	keyOf := func(source, target string) string { return source + "\x00" + target }
	propose := func(s Suggestion) {
		if s.TargetSku == "" || s.TargetSku == s.SourceSku {
			return
		}
		if _, ok := tables.Catalog[s.TargetSku]; !ok {
			return
		}
		k := keyOf(s.SourceSku, s.TargetSku)
		if prev, ok := best[k]; !ok || s.Confidence > prev.Confidence {
			best[k] = s
		}
	}

	for _, source := range sources {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		res, err := tables.Resolve(source)
		if err != nil {
			return nil, err
		}
		if res.State != StateUnmapped {
			continue
		}

		normalized := normalizeSku(source)
		if normalized != source {
			propose(Suggestion{
				SourceSku:  source,
				TargetSku:  normalized,
				Confidence: 0.8,
				Reason:     "normalized form exists in catalog",
				Score:      8,
			})
		}
		if base, ok := strings.CutSuffix(normalized, PersonalizationSuffix); ok && base != "" {
			propose(Suggestion{
				SourceSku:  source,
				TargetSku:  base,
				Confidence: 0.9,
				Reason:     "personalization suffix stripped",
				Score:      9,
			})
		}
		if base, ok := strings.CutSuffix(normalized, VariantSuffix); ok && base != "" {
			propose(Suggestion{
				SourceSku:  source,
				TargetSku:  base,
				Confidence: 0.85,
				Reason:     "variant suffix stripped",
				Score:      8.5,
			})
		}

		if search.Enabled() {
			matches, err := search.FuzzyMatch(ctx, normalized, 5)
			if err != nil {
				// Fuzzy matching is best-effort; heuristics already ran.
				continue
			}
			var top float64
			for _, score := range matches {
				if score > top {
					top = score
				}
			}
			for target, score := range matches {
				confidence := 0.5
				if top > 0 {
					confidence = 0.5 + 0.25*(score/top)
				}
				propose(Suggestion{
					SourceSku:  source,
					TargetSku:  target,
					Confidence: confidence,
					Reason:     "fuzzy catalog match",
					Score:      score,
				})
			}
		}
	}

	suggestions := make([]Suggestion, 0, len(best))
	for _, s := range best {
		suggestions = append(suggestions, s)
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		if suggestions[i].SourceSku != suggestions[j].SourceSku {
			return suggestions[i].SourceSku < suggestions[j].SourceSku
		}
		return suggestions[i].TargetSku < suggestions[j].TargetSku
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}
