package index

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

// SearchIndex provides full-text search over module metadata using a Bleve in-memory index.
type SearchIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	// entries keeps the indexed modules for field-level match reporting
	entries map[string]*ModuleEntry
}

// NewSearchIndex creates a new in-memory Bleve index.
func NewSearchIndex() (*SearchIndex, error) {
	bleveIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	return &SearchIndex{
		index:   bleveIndex,
		entries: make(map[string]*ModuleEntry),
	}, nil
}

// bleveDocument is the document structure stored in Bleve.
type bleveDocument struct {
	Name       string `json:"name"`
	Sources    string `json:"sources"`
	Defines    string `json:"defines"`
	References string `json:"references"`
}

// buildIndexMapping creates the Bleve index mapping for module documents.
func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	for _, field := range []string{"name", "sources", "defines", "references"} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Store = field == "name"
		fieldMapping.IncludeInAll = true
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexModule adds or updates a module in the search index.
func (si *SearchIndex) IndexModule(entry *ModuleEntry) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	doc := bleveDocument{
		Name:       entry.Name,
		Sources:    strings.Join(entry.SourceFiles, "\n"),
		Defines:    strings.Join(entry.Defines, " "),
		References: strings.Join(entry.References, " "),
	}

	si.entries[entry.Name] = entry
	if err := si.index.Index(entry.Name, doc); err != nil {
		return fmt.Errorf("indexing module %s: %w", entry.Name, err)
	}
	return nil
}

// RemoveModule removes a module from the search index.
func (si *SearchIndex) RemoveModule(name string) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	delete(si.entries, name)
	if err := si.index.Delete(name); err != nil {
		return fmt.Errorf("removing module %s from index: %w", name, err)
	}
	return nil
}

// SearchHit is one module matching a query.
type SearchHit struct {
	Module *ModuleEntry
	Score  float64
	// Fields names the metadata fields containing the search term, e.g. "defines".
	Fields []string
}

// SearchOptions configures a module search.
type SearchOptions struct {
	Query string
	// ModuleGlob restricts hits to module names matching a doublestar pattern.
	ModuleGlob string
	MaxResults int
}

// Search runs a query across all indexed modules.
// Query format:
//   - Plain text: match query (word-level matching)
//   - "quoted text": phrase query (exact phrase match)
//   - /regex/: regexp query
func (si *SearchIndex) Search(options SearchOptions) ([]SearchHit, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()

	if options.MaxResults <= 0 {
		options.MaxResults = 50
	}
	if options.ModuleGlob != "" && !doublestar.ValidatePattern(options.ModuleGlob) {
		return nil, fmt.Errorf("invalid glob pattern: %s", options.ModuleGlob)
	}

	searchRequest := bleve.NewSearchRequest(buildQuery(options.Query))
	searchRequest.Size = options.MaxResults * 5 // Get more results because the glob filter runs afterwards
	searchRequest.Fields = []string{"name"}

	searchResults, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	term := strings.ToLower(extractSearchTerm(options.Query))
	var hits []SearchHit
	for _, hit := range searchResults.Hits {
		entry, ok := si.entries[hit.ID]
		if !ok {
			continue
		}
		if options.ModuleGlob != "" {
			if matched, _ := doublestar.Match(options.ModuleGlob, entry.Name); !matched {
				continue
			}
		}
		hits = append(hits, SearchHit{Module: entry, Score: hit.Score, Fields: matchingFields(entry, term)})
		if len(hits) >= options.MaxResults {
			break
		}
	}
	return hits, nil
}

// buildQuery parses the query string into a Bleve query.
func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	// Regex query: /pattern/
	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		return bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
	}

	// Phrase query: "exact phrase"
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
	}

	return bleve.NewMatchQuery(queryString)
}

// extractSearchTerm strips query syntax to get the raw search term.
func extractSearchTerm(queryString string) string {
	queryString = strings.TrimSpace(queryString)
	if len(queryString) > 2 {
		if (strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/")) ||
			(strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"")) {
			return queryString[1 : len(queryString)-1]
		}
	}
	return queryString
}

// matchingFields lists the fields whose text contains term, case-insensitively.
func matchingFields(entry *ModuleEntry, term string) []string {
	if term == "" {
		return nil
	}
	candidates := []struct {
		field string
		text  string
	}{
		{"name", entry.Name},
		{"sources", strings.Join(entry.SourceFiles, "\n")},
		{"defines", strings.Join(entry.Defines, " ")},
		{"references", strings.Join(entry.References, " ")},
	}
	var fields []string
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.text), term) {
			fields = append(fields, c.field)
		}
	}
	return fields
}

// DocumentCount returns the number of documents in the Bleve index.
func (si *SearchIndex) DocumentCount() uint64 {
	si.mu.RLock()
	defer si.mu.RUnlock()
	count, _ := si.index.DocCount()
	return count
}

// Close closes the Bleve index.
func (si *SearchIndex) Close() error {
	si.mu.Lock()
	defer si.mu.Unlock()
	return si.index.Close()
}

// Clear removes all documents and recreates the index.
func (si *SearchIndex) Clear() error {
	si.mu.Lock()
	defer si.mu.Unlock()

	if err := si.index.Close(); err != nil {
		return fmt.Errorf("closing old index: %w", err)
	}

	newIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating new index: %w", err)
	}

	si.index = newIndex
	si.entries = make(map[string]*ModuleEntry)
	return nil
}
